package shell

import (
	"context"
	"fmt"

	"github.com/atinyakov/memorial/internal/models"
)

func (s *Shell) cmdUpload(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: upload <path> [folder]")
	}
	folder := "general"
	if len(args) > 1 {
		folder = args[1]
	}
	res, err := s.API.Upload().UploadFile(ctx, args[0], folder)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Uploaded %s\n%s\n", res.Filename, res.URL)
	return nil
}

func (s *Shell) cmdFiles(ctx context.Context, args []string) error {
	heroID, err := parseID(args, "files <hero-id>")
	if err != nil {
		return err
	}
	files, err := s.API.Files().List(ctx, heroID)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(s.out, "No files.")
		return nil
	}
	for _, f := range files {
		fmt.Fprintf(s.out, "#%d %s (%s) %s %s\n", f.ID, f.FileName, f.FileType, f.FileURL, f.UploadedAt)
	}
	return nil
}

func (s *Shell) cmdAttach(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: attach <hero-id> <path> [photo|document]")
	}
	heroID, err := parseID(args, "attach <hero-id> <path> [photo|document]")
	if err != nil {
		return err
	}
	fileType := "document"
	if len(args) > 2 {
		fileType = args[2]
	}
	if fileType != "photo" && fileType != "document" {
		return fmt.Errorf("file type must be photo or document, got %q", fileType)
	}
	f, err := s.API.Files().Attach(ctx, heroID, args[1], fileType)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "File #%d attached: %s\n", f.ID, f.FileURL)
	return nil
}

func (s *Shell) cmdDetach(ctx context.Context, args []string) error {
	id, err := parseID(args, "detach <file-id>")
	if err != nil {
		return err
	}
	if err := s.API.Files().Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "File #%d removed.\n", id)
	return nil
}

func (s *Shell) cmdSubmit(ctx context.Context, _ []string) error {
	var sub models.Submission
	var err error
	if sub.HeroName, err = s.in.ask("Hero name", ""); err != nil {
		return err
	}
	if sub.Relationship, err = s.in.ask("Your relationship to the hero", ""); err != nil {
		return err
	}
	if sub.DocumentType, err = s.in.ask("Document type", ""); err != nil {
		return err
	}
	if sub.Description, err = s.in.ask("Description", ""); err != nil {
		return err
	}
	if sub.Year, err = s.in.ask("Year", ""); err != nil {
		return err
	}
	if sub.Email, err = s.in.ask("Contact email", ""); err != nil {
		return err
	}

	id, err := s.API.Submissions().Submit(ctx, sub)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Thank you! Submission #%d was sent for moderation.\n", id)
	return nil
}
