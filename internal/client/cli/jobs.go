package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/client/progress"
)

var (
	errUsage            = errors.New("usage")
	errNotPDF           = errors.New("only PDF files are accepted")
	errNoJobDescription = errors.New("job description is required")
)

// openFile and interruptContext are test seams.
var openFile = func(name string) (io.ReadCloser, error) { return os.Open(name) }

var interruptContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// refresher is the part of a projector the refresh command needs.
type refresher interface {
	Mount(ctx context.Context)
	Unmount()
	Track(id models.ID)
	Refresh(ctx context.Context) error
}

// lastJob remembers the most recent job view so its result can be read
// again after the terminal event was missed. idArg names the id refresh
// accepts for this kind of job; it is empty when the id is always known.
type lastJob struct {
	view  refresher
	show  func()
	idArg string
}

// Upload sends a PDF résumé and follows its analysis.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: upload <file.pdf>")
		return errUsage
	}
	path := args[0]
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		fmt.Fprintln(a.out, "Only PDF files are accepted.")
		return errNotPDF
	}

	f, err := openFile(path)
	if err != nil {
		fmt.Fprintf(a.out, "Cannot open %s: %v\n", path, err)
		return err
	}
	defer f.Close()

	view := progress.NewResumeUpload(a.api, a.sub, a.session, a.logger)
	view.Mount(ctx)
	defer view.Unmount()
	a.last = &lastJob{view: view, show: func() { printResume(a.out, view.State()) }}

	if err := view.Upload(ctx, filepath.Base(path), f); err != nil {
		a.report("Upload", err)
		return err
	}
	return watch(ctx, a.out, view.Projector, printResume)
}

// Match asks for a job description and follows the matching job.
func (a *App) Match(ctx context.Context, _ []string) error {
	title, err := getSimpleText(a.in, "Job title (optional)", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.in, "Paste the job description", a.out)
	if err != nil {
		return err
	}
	if description == "" {
		fmt.Fprintln(a.out, "A job description is required.")
		return errNoJobDescription
	}

	view := progress.NewJobMatch(a.api, a.sub, a.session, a.logger)
	view.Mount(ctx)
	defer view.Unmount()
	a.last = &lastJob{view: view, show: func() { printMatch(a.out, view.State()) }, idArg: "match_id"}

	req := models.MatchRequest{Title: title, JobDescription: description}
	if err := view.Submit(ctx, req); err != nil {
		a.report("Match", err)
		return err
	}
	return watch(ctx, a.out, view.Projector, printMatch)
}

// Refresh reads the last job's result from the server. After a match the
// match id may be given when the completion event never arrived.
func (a *App) Refresh(ctx context.Context, args []string) error {
	if a.last == nil {
		fmt.Fprintln(a.out, "Nothing to refresh yet.")
		return nil
	}
	if len(args) > 1 || (len(args) == 1 && a.last.idArg == "") {
		if a.last.idArg == "" {
			fmt.Fprintln(a.out, "Usage: refresh (the last job's id is already known)")
		} else {
			fmt.Fprintf(a.out, "Usage: refresh [%s]\n", a.last.idArg)
		}
		return errUsage
	}

	v := a.last.view
	v.Mount(ctx)
	defer v.Unmount()
	if len(args) == 1 {
		v.Track(models.ID(args[0]))
	}

	if err := v.Refresh(ctx); err != nil {
		if errors.Is(err, progress.ErrMissingArtifact) && a.last.idArg != "" {
			fmt.Fprintf(a.out, "The %s is not known yet. Usage: refresh <%s>\n", a.last.idArg, a.last.idArg)
			return err
		}
		a.report("Refresh", err)
		return err
	}
	a.last.show()
	return nil
}

// Stats is the admin-only view.
func (a *App) Stats(ctx context.Context, _ []string) error {
	st, err := a.api.AdminStats(ctx, a.session.Token())
	if err != nil {
		a.report("Stats", err)
		return err
	}

	fmt.Fprintf(a.out, "Users:            %d (%d with résumés)\n", st.TotalUsers, st.UsersWithResumes)
	fmt.Fprintf(a.out, "Résumés:          %d (%d active)\n", st.TotalResumes, st.ActiveResumes)
	fmt.Fprintf(a.out, "Jobs:             %d\n", st.TotalJobs)
	fmt.Fprintf(a.out, "Matches:          %d (%.1f per user)\n", st.TotalMatches, st.AverageMatchesPerUser)
	fmt.Fprintf(a.out, "Average fit:      %.1f\n", st.AverageFitScore)
	for _, status := range slices.Sorted(maps.Keys(st.ResumeStatusBreakdown)) {
		fmt.Fprintf(a.out, "  %-14s  %d\n", status, st.ResumeStatusBreakdown[status])
	}
	return nil
}

// watch prints every projected state until the job ends or the user
// presses Ctrl+C. The caller unmounts the projector.
func watch[R any](ctx context.Context, out io.Writer, p *progress.Projector[R], render func(io.Writer, progress.State[R])) error {
	ctx, stop := interruptContext(ctx)
	defer stop()

	for {
		select {
		case st := <-p.Updates():
			render(out, st)
			if st.Phase.Terminal() {
				return st.Err
			}
		case <-ctx.Done():
			fmt.Fprintln(out, "Stopped following the job. Use 'refresh' to read its result later.")
			return nil
		}
	}
}

func printProgress[R any](out io.Writer, st progress.State[R]) {
	line := fmt.Sprintf("[%3d%%] %s", st.Progress, st.Phase)
	if st.Status != "" {
		line += " (" + string(st.Status) + ")"
	}
	if st.Message != "" {
		line += ": " + st.Message
	}
	fmt.Fprintln(out, line)
}

func printResume(out io.Writer, st progress.State[models.ResumeRecord]) {
	switch {
	case st.Phase == progress.PhaseFailed:
		fmt.Fprintf(out, "Résumé processing failed: %v\n", st.Err)
	case st.Phase == progress.PhaseReady && st.Result != nil:
		r := st.Result
		fmt.Fprintf(out, "Résumé %s analysed (%s).\n", r.Filename, r.Status)
		if r.Summary != "" {
			fmt.Fprintf(out, "Summary: %s\n", r.Summary)
		}
		if len(r.Skills) > 0 {
			fmt.Fprintf(out, "Skills: %s\n", strings.Join(r.Skills, ", "))
		}
		if len(r.Education) > 0 {
			fmt.Fprintf(out, "Education: %s\n", strings.Join(r.Education, "; "))
		}
	default:
		printProgress(out, st)
	}
}

func printMatch(out io.Writer, st progress.State[models.MatchRecord]) {
	switch {
	case st.Phase == progress.PhaseFailed:
		fmt.Fprintf(out, "Job match failed: %v\n", st.Err)
	case st.Phase == progress.PhaseReady && st.Result != nil:
		m := st.Result
		fmt.Fprintf(out, "Match %s: fit score %d/100\n", m.ID, m.FitScore)
		if len(m.Strengths) > 0 {
			fmt.Fprintf(out, "Strengths: %s\n", strings.Join(m.Strengths, ", "))
		}
		if len(m.MissingSkills) > 0 {
			fmt.Fprintf(out, "Missing skills: %s\n", strings.Join(m.MissingSkills, ", "))
		}
		if m.Recommendations != "" {
			fmt.Fprintf(out, "Recommendations: %s\n", m.Recommendations)
		}
	default:
		printProgress(out, st)
	}
}
