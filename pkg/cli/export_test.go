package cli

import (
	"context"
	"io"

	"github.com/secmon-lab/nem0/pkg/usecase"
)

// RunChatSession drives a terminal chat session with plain-text rendering
func RunChatSession(ctx context.Context, uc *usecase.UseCases, userID string, in io.Reader, out io.Writer) error {
	s := &chatSession{
		uc:     uc,
		userID: userID,
		in:     in,
		out:    out,
		render: func(text string) string { return text + "\n" },
	}
	return s.run(ctx)
}

var GetIndexConfig = getIndexConfig
