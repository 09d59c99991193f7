package objectstore

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/somo/core"
)

var (
	ErrInvalidLink = errors.New("invalid download link")
	ErrLinkExpired = errors.New("download link expired")

	// mocked in tests
	NowFunc = time.Now
)

const localSalt = "somo.storage.objectstore.local"

// LocalIssuer signs download URLs served by the API itself; used in
// development and wherever no object store is deployed. Links expire exactly
// at the boundary.
type LocalIssuer struct {
	baseURL string
	secret  []byte
}

var _ core.LinkIssuer = (*LocalIssuer)(nil)

func NewLocalIssuer(conf *core.Config) *LocalIssuer {
	return &LocalIssuer{
		baseURL: conf.Server.PublicURL,
		secret:  conf.SecretKey,
	}
}

func (iss *LocalIssuer) IssueURL(_ context.Context, fileRef string, expiry time.Duration) (string, error) {
	if fileRef == "" {
		return "", ErrInvalidLink
	}
	enc := encodeRef(fileRef)
	exp := NowFunc().Add(expiry).Unix()
	sig := iss.sign(enc, exp)
	return fmt.Sprintf("%s/api/files/%s?expires=%d&sig=%s", iss.baseURL, enc, exp, sig), nil
}

// Verify checks an encoded file reference against its expiry and signature
// and returns the original reference.
func (iss *LocalIssuer) Verify(enc string, expires int64, sig string) (string, error) {
	want := iss.sign(enc, expires)
	if subtle.ConstantTimeCompare([]byte(want), []byte(sig)) != 1 {
		return "", ErrInvalidLink
	}
	if !NowFunc().Before(time.Unix(expires, 0)) {
		return "", ErrLinkExpired
	}
	return decodeRef(enc)
}

func (iss *LocalIssuer) sign(enc string, expires int64) string {
	key := sha256.Sum256(append([]byte(localSalt), iss.secret...))
	mac := hmac.New(sha256.New, key[:])
	mac.Write([]byte(enc))
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func encodeRef(ref string) string {
	return url.PathEscape(strings.ReplaceAll(ref, "/", "_"))
}

func decodeRef(enc string) (string, error) {
	ref, err := url.PathUnescape(enc)
	if err != nil {
		return "", ErrInvalidLink
	}
	return strings.ReplaceAll(ref, "_", "/"), nil
}
