package shell

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/atinyakov/memorial/internal/client/state"
	"github.com/atinyakov/memorial/internal/models"
	"github.com/atinyakov/memorial/internal/search"
)

func (s *Shell) cmdMonuments(ctx context.Context, args []string) error {
	if err := s.Monuments.Load(ctx); err != nil {
		return err
	}
	s.monumentQuery = strings.Join(args, " ")
	s.printMonuments()
	return nil
}

func (s *Shell) cmdMonumentType(ctx context.Context, args []string) error {
	if s.Monuments.Status(state.OpLoad) == state.Idle {
		if err := s.Monuments.Load(ctx); err != nil {
			return err
		}
	}
	s.monumentFacets.Type = strings.Join(args, " ")
	s.printMonuments()
	return nil
}

func (s *Shell) printMonuments() {
	all := s.Monuments.Items()
	visible := search.FilterMonuments(all, s.monumentQuery, s.monumentFacets)
	fmt.Fprintf(s.out, "Monuments: %d of %d (types: %s)\n",
		len(visible), len(all), strings.Join(search.MonumentTypes(all), ", "))
	if len(visible) == 0 {
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tSETTLEMENT\tLOCATION")
	for _, m := range visible {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Type, m.Settlement, m.Location)
	}
	_ = w.Flush()
}

func (s *Shell) cmdMonument(ctx context.Context, args []string) error {
	id, err := parseID(args, "monument <id>")
	if err != nil {
		return err
	}
	m, err := s.API.Monuments().GetByID(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "#%d %s (%s)\n", m.ID, m.Name, m.Type)
	fmt.Fprintf(s.out, "Location:   %s, %s\n", m.Location, m.Settlement)
	if m.Address != "" {
		fmt.Fprintf(s.out, "Address:    %s\n", m.Address)
	}
	if m.Coordinates != "" {
		fmt.Fprintf(s.out, "Coordinates: %s\n", m.Coordinates)
	}
	if m.EstablishmentYear != nil {
		fmt.Fprintf(s.out, "Established: %d\n", *m.EstablishmentYear)
	}
	if m.Architect != "" {
		fmt.Fprintf(s.out, "Architect:  %s\n", m.Architect)
	}
	fmt.Fprintf(s.out, "\n%s\n", m.Description)
	if m.History != "" {
		fmt.Fprintf(s.out, "\n%s\n", m.History)
	}
	if m.ImageURL != "" {
		fmt.Fprintf(s.out, "Image: %s\n", m.ImageURL)
	}
	for _, p := range m.Photos {
		fmt.Fprintf(s.out, "Photo #%d: %s (%s) %s\n", p.ID, p.Title, yearString(p.PhotoYear), p.PhotoURL)
	}
	return nil
}

func (s *Shell) cmdAddMonument(ctx context.Context, _ []string) error {
	m, err := s.monumentForm(ctx, models.Monument{})
	if err != nil {
		return err
	}
	id, err := s.Monuments.Create(ctx, m)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Monument #%d added.\n", id)
	return nil
}

func (s *Shell) cmdEditMonument(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit-monument <id>")
	if err != nil {
		return err
	}
	if s.Monuments.Status(state.OpLoad) == state.Idle {
		if err := s.Monuments.Load(ctx); err != nil {
			return err
		}
	}
	cur, ok := s.Monuments.Get(id)
	if !ok {
		return fmt.Errorf("monument #%d not found", id)
	}
	m, err := s.monumentForm(ctx, cur)
	if err != nil {
		return err
	}
	m.ID = id
	if err := s.Monuments.Update(ctx, m); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Monument #%d updated.\n", id)
	return nil
}

func (s *Shell) cmdDeleteMonument(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete-monument <id>")
	if err != nil {
		return err
	}
	if err := s.Monuments.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Monument #%d deleted.\n", id)
	return nil
}

func (s *Shell) monumentForm(ctx context.Context, cur models.Monument) (models.Monument, error) {
	m := cur
	var err error
	if m.Name, err = s.in.ask("Name", cur.Name); err != nil {
		return m, err
	}
	if m.Type, err = s.in.choose("Type", models.MonumentTypes, cur.Type); err != nil {
		return m, err
	}
	if m.Description, err = s.in.ask("Description", cur.Description); err != nil {
		return m, err
	}
	if m.Location, err = s.in.ask("Location", cur.Location); err != nil {
		return m, err
	}
	if m.Settlement, err = s.in.ask("Settlement", cur.Settlement); err != nil {
		return m, err
	}
	if m.Address, err = s.in.ask("Address", cur.Address); err != nil {
		return m, err
	}
	if m.Coordinates, err = s.in.ask("Coordinates (lat,lon)", cur.Coordinates); err != nil {
		return m, err
	}
	if m.EstablishmentYear, err = s.in.askOptionalYear("Established", cur.EstablishmentYear); err != nil {
		return m, err
	}
	if m.Architect, err = s.in.ask("Architect", cur.Architect); err != nil {
		return m, err
	}
	if m.History, err = s.in.ask("History", cur.History); err != nil {
		return m, err
	}
	img, err := s.in.ask("Image (URL or local file)", cur.ImageURL)
	if err != nil {
		return m, err
	}
	if m.ImageURL, err = s.maybeUpload(ctx, img, "monuments"); err != nil {
		return m, err
	}
	m.Photos = nil
	return m, nil
}
