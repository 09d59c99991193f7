package core

import (
	"context"
	"time"
)

// LinkIssuer produces a time-limited download URL for a stored file reference.
// The URL expires exactly `expiry` from issuance; it must never be cached or
// reused across requests.
type LinkIssuer interface {
	IssueURL(ctx context.Context, fileRef string, expiry time.Duration) (string, error)
}

// BatchIssueURLs issues URLs for all given file references. A failure for one
// reference never fails the batch: the entry is left out of the result and the
// failure is logged.
func BatchIssueURLs(ctx context.Context, issuer LinkIssuer, fileRefs []string, expiry time.Duration, logger Logger) map[string]string {
	urls := make(map[string]string, len(fileRefs))
	for _, ref := range fileRefs {
		u, err := issuer.IssueURL(ctx, ref, expiry)
		if err != nil {
			logger.Warn("failed to issue download URL for "+ref, err)
			continue
		}
		urls[ref] = u
	}
	return urls
}
