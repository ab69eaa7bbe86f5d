package shell

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/atinyakov/memorial/internal/client/state"
	"github.com/atinyakov/memorial/internal/models"
	"github.com/atinyakov/memorial/internal/search"
)

// ensureHeroes loads the hero list once.
func (s *Shell) ensureHeroes(ctx context.Context) error {
	if s.Heroes.Status(state.OpLoad) == state.Idle {
		return s.Heroes.Load(ctx)
	}
	return nil
}

func (s *Shell) cmdHeroes(ctx context.Context, args []string) error {
	tab := search.TabAll
	if len(args) > 0 {
		var err error
		if tab, err = search.ParseTab(args[0]); err != nil {
			return err
		}
	}
	if err := s.Heroes.Load(ctx); err != nil {
		return err
	}
	s.printHeroes(tab)
	return nil
}

func (s *Shell) cmdSearch(ctx context.Context, args []string) error {
	if err := s.ensureHeroes(ctx); err != nil {
		return err
	}
	s.heroQuery = strings.Join(args, " ")
	s.printHeroes(search.TabAll)
	return nil
}

func (s *Shell) cmdRank(ctx context.Context, args []string) error {
	if err := s.ensureHeroes(ctx); err != nil {
		return err
	}
	s.heroFacets.Rank = strings.Join(args, " ")
	s.printHeroes(search.TabAll)
	return nil
}

func (s *Shell) cmdRegion(ctx context.Context, args []string) error {
	if err := s.ensureHeroes(ctx); err != nil {
		return err
	}
	s.heroFacets.Region = strings.Join(args, " ")
	s.printHeroes(search.TabAll)
	return nil
}

func (s *Shell) cmdFilters(ctx context.Context, _ []string) error {
	if err := s.ensureHeroes(ctx); err != nil {
		return err
	}
	heroes := s.Heroes.Items()
	fmt.Fprintf(s.out, "Search: %q\n", s.heroQuery)
	fmt.Fprintf(s.out, "Rank:   %q (options: %s)\n", s.heroFacets.Rank, strings.Join(search.Ranks(heroes), ", "))
	fmt.Fprintf(s.out, "Region: %q (options: %s)\n", s.heroFacets.Region, strings.Join(search.Regions(heroes), ", "))
	return nil
}

func (s *Shell) cmdStats(ctx context.Context, _ []string) error {
	if err := s.Heroes.Load(ctx); err != nil {
		return err
	}
	st := search.Summarize(s.Heroes.Items())
	fmt.Fprintf(s.out, "Heroes: %d, fate confirmed: %d, missing: %d\n", st.Total, st.Found, st.Missing)
	return nil
}

// printHeroes shows the filtered heroes of one tab along with the tab counts.
func (s *Shell) printHeroes(tab search.Tab) {
	filtered := search.FilterHeroes(s.Heroes.Items(), s.heroQuery, s.heroFacets)
	visible := search.HeroesInTab(filtered, tab)
	st := search.Summarize(filtered)

	fmt.Fprintf(s.out, "Records found: %d (all %d, found %d, missing %d)\n",
		len(visible), st.Total, st.Found, st.Missing)
	if len(visible) == 0 {
		return
	}
	w := tabwriter.NewWriter(s.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tYEARS\tRANK\tUNIT\tHOMETOWN")
	for _, h := range visible {
		fmt.Fprintf(w, "%d\t%s\t%d–%s\t%s\t%s\t%s\n",
			h.ID, h.Name, h.BirthYear, yearString(h.DeathYear), h.Rank, h.Unit, h.Hometown)
	}
	_ = w.Flush()
}

func (s *Shell) cmdHero(ctx context.Context, args []string) error {
	id, err := parseID(args, "hero <id>")
	if err != nil {
		return err
	}
	h, err := s.API.Heroes().GetByID(ctx, id)
	if err != nil {
		return err
	}
	files, err := s.API.Files().List(ctx, id)
	if err != nil {
		return err
	}

	fate := "missing"
	if h.Found() {
		fate = "fate confirmed"
	}
	fmt.Fprintf(s.out, "#%d %s (%d–%s, %s)\n", h.ID, h.Name, h.BirthYear, yearString(h.DeathYear), fate)
	fmt.Fprintf(s.out, "Rank:     %s\n", h.Rank)
	fmt.Fprintf(s.out, "Unit:     %s\n", h.Unit)
	fmt.Fprintf(s.out, "Hometown: %s, %s\n", h.Hometown, h.Region)
	if len(h.Awards) > 0 {
		fmt.Fprintf(s.out, "Awards:   %s\n", strings.Join(h.Awards, "; "))
	}
	if h.Photo != "" {
		fmt.Fprintf(s.out, "Photo:    %s\n", h.Photo)
	}
	for _, d := range h.Documents {
		fmt.Fprintf(s.out, "Document: %s (%s) %s\n", d.Name, d.Type, d.URL)
	}
	for _, f := range files {
		fmt.Fprintf(s.out, "File #%d: %s (%s) %s\n", f.ID, f.FileName, f.FileType, f.FileURL)
	}
	return nil
}

func (s *Shell) cmdAddHero(ctx context.Context, _ []string) error {
	h, err := s.heroForm(ctx, models.Hero{Region: models.DefaultRegion, Awards: []string{}})
	if err != nil {
		return err
	}
	id, err := s.Heroes.Create(ctx, h)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Hero #%d added.\n", id)
	return nil
}

func (s *Shell) cmdEditHero(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit-hero <id>")
	if err != nil {
		return err
	}
	if err := s.ensureHeroes(ctx); err != nil {
		return err
	}
	cur, ok := s.Heroes.Get(id)
	if !ok {
		return fmt.Errorf("hero #%d not found", id)
	}
	h, err := s.heroForm(ctx, cur)
	if err != nil {
		return err
	}
	h.ID = id
	if err := s.Heroes.Update(ctx, h); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Hero #%d updated.\n", id)
	return nil
}

func (s *Shell) cmdDeleteHero(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete-hero <id>")
	if err != nil {
		return err
	}
	if err := s.Heroes.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Hero #%d deleted.\n", id)
	return nil
}

// heroForm asks for every hero field, offering cur as defaults.
func (s *Shell) heroForm(ctx context.Context, cur models.Hero) (models.Hero, error) {
	h := cur
	var err error
	if h.Name, err = s.in.ask("Full name", cur.Name); err != nil {
		return h, err
	}
	if h.BirthYear, err = s.in.askInt("Birth year", cur.BirthYear); err != nil {
		return h, err
	}
	if h.DeathYear, err = s.in.askOptionalYear("Death year", cur.DeathYear); err != nil {
		return h, err
	}
	if h.Rank, err = s.in.choose("Rank", models.Ranks, cur.Rank); err != nil {
		return h, err
	}
	if h.Unit, err = s.in.ask("Unit", cur.Unit); err != nil {
		return h, err
	}
	if h.Awards, err = s.in.list("Awards", cur.Awards); err != nil {
		return h, err
	}
	if h.Hometown, err = s.in.ask("Hometown", cur.Hometown); err != nil {
		return h, err
	}
	if h.Region, err = s.in.ask("Region", cur.Region); err != nil {
		return h, err
	}
	photo, err := s.in.ask("Photo (URL or local file)", cur.Photo)
	if err != nil {
		return h, err
	}
	if h.Photo, err = s.maybeUpload(ctx, photo, "heroes"); err != nil {
		return h, err
	}
	return h, nil
}

// maybeUpload uploads v when it names a local file and returns the public URL.
// Any other value is returned unchanged.
func (s *Shell) maybeUpload(ctx context.Context, v, folder string) (string, error) {
	if v == "" || strings.Contains(v, "://") {
		return v, nil
	}
	if st, err := os.Stat(v); err != nil || st.IsDir() {
		return v, nil
	}
	res, err := s.API.Upload().UploadFile(ctx, v, folder)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(s.out, "Uploaded %s\n", res.URL)
	return res.URL, nil
}
