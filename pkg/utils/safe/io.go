package safe

import (
	"context"
	"fmt"
	"io"

	"github.com/secmon-lab/nem0/pkg/utils/logging"
)

// Close closes closer and logs a failure instead of returning it. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("failed to close",
			"resource", fmt.Sprintf("%T", closer),
			logging.ErrAttr(err),
		)
	}
}

// Copy streams src into dst and logs a failure. Used where the response is already committed.
func Copy(ctx context.Context, dst io.Writer, src io.Reader) {
	if n, err := io.Copy(dst, src); err != nil {
		logging.From(ctx).Error("failed to copy",
			"written", n,
			logging.ErrAttr(err),
		)
	}
}
