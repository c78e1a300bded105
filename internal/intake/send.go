package intake

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/abhisek/pathwise/internal/resume"
)

// Client is the remote side of the intake workflow.
type Client interface {
	SubmitInfo(ctx context.Context, sub Submission) error
	UploadResume(ctx context.Context, identity, filename string, r io.Reader) error
}

// Outcome reports what Send transmitted.
type Outcome struct {
	Submission Submission
	Resume     *resume.Info // nil when no resume was attached
}

// Send builds the payload from values, posts it, and uploads the resume
// when one is attached. The resume is checked locally before the profile
// is posted so a bad file fails the whole send up front.
func Send(ctx context.Context, c Client, identity string, values map[string]string) (*Outcome, error) {
	sub, err := Build(identity, values)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Submission: sub}
	path := sub.ResumePath()
	if path != "" {
		info, err := resume.CheckFile(path)
		if err != nil {
			return nil, fmt.Errorf("check resume: %w", err)
		}
		out.Resume = info
	}

	if err := c.SubmitInfo(ctx, sub); err != nil {
		return nil, fmt.Errorf("submit profile: %w", err)
	}
	if path == "" {
		return out, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()
	if err := c.UploadResume(ctx, identity, out.Resume.Name, f); err != nil {
		return nil, fmt.Errorf("upload resume: %w", err)
	}
	return out, nil
}
