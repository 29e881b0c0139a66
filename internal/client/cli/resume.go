package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/thonhub/thonhub/internal/client/models"
)

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: upload <file>")
	}
	if !a.auth.IsAuthenticated(ctx) {
		return ErrNotLoggedIn
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	progress := make(chan int)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for pct := range progress {
			a.printf("\rUploading %s... %3d%%", info.Name(), pct)
		}
		a.printf("\n")
	}()

	res, err := a.resume.Upload(ctx, filepath.Base(args[0]), f, info.Size(), progress)
	<-done
	if err != nil {
		return err
	}

	a.printf("Uploaded %s\n", res.Filename)
	a.printAnalysis(res.Analysis)
	return nil
}

func (a *App) Analyze(ctx context.Context) error {
	text, err := GetMultiline(a.reader, "Paste resume text", a.out)
	if err != nil {
		return err
	}
	if text == "" {
		return errors.New("nothing to analyze")
	}

	analysis, err := a.resume.Analyze(ctx, text)
	if err != nil {
		return err
	}
	a.printAnalysis(analysis)
	return nil
}

func (a *App) printAnalysis(r *models.ResumeAnalysis) {
	if r == nil {
		return
	}
	skills := "none detected"
	if len(r.Skills) > 0 {
		skills = strings.Join(r.Skills, ", ")
	}
	a.printf("Score:      %d/100\nLevel:      %s\nWords:      %d\nSkills:     %s\n", r.Score, r.ExperienceLevel, r.WordCount, skills)
	if r.Email != nil {
		a.printf("Email:      %s\n", *r.Email)
	}
	if r.Phone != nil {
		a.printf("Phone:      %s\n", *r.Phone)
	}
}
