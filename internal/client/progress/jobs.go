package progress

import (
	"context"
	"io"

	"github.com/dmitrijs2005/jobfit/internal/client/client"
	"github.com/dmitrijs2005/jobfit/internal/client/models"
	"github.com/dmitrijs2005/jobfit/internal/client/realtime"
	"github.com/dmitrijs2005/jobfit/internal/logging"
)

// ResumeKind reads the analysed résumé once the server reports "analyzed".
// The id comes from data.resume_id, the frame's resume_id or the upload
// receipt; without any, the caller's active résumé is read.
func ResumeKind(api client.Client) Kind[models.ResumeRecord] {
	return Kind[models.ResumeRecord]{
		Name:     "resume",
		Topic:    models.TopicResume,
		Terminal: models.StatusAnalyzed,
		Artifact: func(ev models.ProgressEvent, hint models.ID) (models.ID, error) {
			if id := ev.DataID("resume_id"); !id.IsZero() {
				return id, nil
			}
			if !ev.ResumeID.IsZero() {
				return ev.ResumeID, nil
			}
			return hint, nil
		},
		Fetch: api.GetResume,
	}
}

// MatchKind reads the finished match once the server reports "completed".
func MatchKind(api client.Client) Kind[models.MatchRecord] {
	return Kind[models.MatchRecord]{
		Name:     "match",
		Topic:    models.TopicJobMatch,
		Terminal: models.StatusCompleted,
		Artifact: func(ev models.ProgressEvent, hint models.ID) (models.ID, error) {
			if id := ev.DataID("match_id"); !id.IsZero() {
				return id, nil
			}
			if !hint.IsZero() {
				return hint, nil
			}
			return "", ErrMissingArtifact
		},
		Fetch: api.GetMatch,
	}
}

// ResumeUpload projects a résumé upload.
type ResumeUpload struct {
	*Projector[models.ResumeRecord]
	api client.Client
}

func NewResumeUpload(api client.Client, sub realtime.Subscriber, tokens TokenSource, logger logging.Logger) *ResumeUpload {
	return &ResumeUpload{
		Projector: NewProjector(ResumeKind(api), sub, tokens, logger),
		api:       api,
	}
}

// Upload sends the file. Progress then arrives over the channel.
func (u *ResumeUpload) Upload(ctx context.Context, filename string, r io.Reader) error {
	return u.submit(ctx, func(ctx context.Context, token string) (models.ID, string, error) {
		receipt, err := u.api.UploadResume(ctx, token, filename, r)
		if err != nil {
			return "", "", err
		}
		return receipt.ResumeID, receipt.Message, nil
	})
}

// JobMatch projects a job match request.
type JobMatch struct {
	*Projector[models.MatchRecord]
	api client.Client
}

func NewJobMatch(api client.Client, sub realtime.Subscriber, tokens TokenSource, logger logging.Logger) *JobMatch {
	return &JobMatch{
		Projector: NewProjector(MatchKind(api), sub, tokens, logger),
		api:       api,
	}
}

// Submit sends the job description. The match id is only known from the
// terminal event.
func (m *JobMatch) Submit(ctx context.Context, req models.MatchRequest) error {
	return m.submit(ctx, func(ctx context.Context, token string) (models.ID, string, error) {
		receipt, err := m.api.SubmitMatch(ctx, token, req)
		if err != nil {
			return "", "", err
		}
		return "", receipt.Message, nil
	})
}
