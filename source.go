package idiompage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/alnah/go-idiompage/internal/fileutil"
)

// maxIdiomSize caps an idiom payload (4 MiB).
const maxIdiomSize = 4 << 20

// IdiomSource supplies the idiom data of the page being rendered.
// A nil IdiomSource passed to Render means the page has no data to fetch.
type IdiomSource interface {
	FetchIdiom(ctx context.Context) (*Idiom, error)
}

// Compile-time interface checks.
var (
	_ IdiomSource = (*HTTPSource)(nil)
	_ IdiomSource = BytesSource(nil)
	_ IdiomSource = FileSource("")
	_ IdiomSource = StaticSource{}
)

// HTTPSource fetches idiom JSON from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client // nil = http.DefaultClient
}

// FetchIdiom performs a GET and decodes the body.
// Non-2xx responses wrap ErrFetchIdiom; bad payloads wrap ErrDecodeIdiom.
func (s *HTTPSource) FetchIdiom(ctx context.Context) (*Idiom, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchIdiom, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchIdiom, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrFetchIdiom, s.URL, resp.StatusCode)
	}

	return decodeIdiom(resp.Body)
}

// BytesSource decodes idiom JSON held in memory.
type BytesSource []byte

// FetchIdiom decodes the bytes.
func (b BytesSource) FetchIdiom(ctx context.Context) (*Idiom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeIdiom(bytes.NewReader(b))
}

// FileSource reads idiom JSON from a file path.
type FileSource string

// FetchIdiom reads and decodes the file.
func (f FileSource) FetchIdiom(ctx context.Context) (*Idiom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(string(f)) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchIdiom, err)
	}
	defer file.Close()

	return decodeIdiom(file)
}

// StaticSource returns an idiom already in memory.
type StaticSource struct {
	Idiom *Idiom
}

// FetchIdiom returns a copy of the idiom.
func (s StaticSource) FetchIdiom(ctx context.Context) (*Idiom, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Idiom == nil {
		return nil, fmt.Errorf("%w: no idiom", ErrFetchIdiom)
	}
	idiom := *s.Idiom
	idiom.Implementations = append([]Implementation(nil), s.Idiom.Implementations...)
	return &idiom, nil
}

// ResolveSource picks a source for a reference given on the command line or
// in a config:
//
//	""                 -> nil (no fetch)
//	"http(s)://..."    -> HTTPSource
//	anything else      -> FileSource
func ResolveSource(ref string, client *http.Client) IdiomSource {
	switch {
	case ref == "":
		return nil
	case fileutil.IsURL(ref):
		return &HTTPSource{URL: ref, Client: client}
	default:
		return FileSource(ref)
	}
}

func decodeIdiom(r io.Reader) (*Idiom, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxIdiomSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetchIdiom, err)
	}
	if len(data) > maxIdiomSize {
		return nil, fmt.Errorf("%w: payload exceeds %d bytes", ErrDecodeIdiom, maxIdiomSize)
	}

	var idiom Idiom
	if err := json.Unmarshal(data, &idiom); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeIdiom, err)
	}
	return &idiom, nil
}
