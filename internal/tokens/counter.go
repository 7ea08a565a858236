package tokens

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tkloader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultModel is the encoding used when no model id is configured.
const DefaultModel = "cl100k_base"

// charsPerToken is the ratio used by the approximate counter.
const charsPerToken = 4

// Mode identifies which counting strategy a Counter uses.
type Mode int

const (
	// ModeExact counts sub-word tokens with a tiktoken encoder.
	ModeExact Mode = iota
	// ModeApproximate counts one token per four characters.
	ModeApproximate
)

func (m Mode) String() string {
	switch m {
	case ModeExact:
		return "exact"
	case ModeApproximate:
		return "approximate"
	default:
		return "unknown"
	}
}

// Counter measures the token length of text. The mode is fixed at construction.
type Counter struct {
	model    string
	mode     Mode
	enc      *tiktoken.Tiktoken
	fallback error
}

var (
	encMu    sync.Mutex
	encCache = map[string]encEntry{}
)

type encEntry struct {
	enc *tiktoken.Tiktoken
	err error
}

// New returns a Counter for the given model id. Encoding names ("cl100k_base"),
// model names ("gpt-4") and "tiktoken/" prefixed ids are accepted. When the encoder
// cannot be loaded the Counter falls back to approximate counting; callers that
// need encoder-exact counts must check IsApproximate.
func New(model string) *Counter {
	id := strings.TrimSpace(model)
	if id == "" {
		id = DefaultModel
	}
	enc, err := loadEncoding(id)
	if err != nil {
		return &Counter{model: id, mode: ModeApproximate, fallback: err}
	}
	return &Counter{model: id, mode: ModeExact, enc: enc}
}

// Approximate returns a Counter that never consults an encoder.
func Approximate() *Counter {
	return &Counter{model: "approximate", mode: ModeApproximate}
}

func loadEncoding(id string) (*tiktoken.Tiktoken, error) {
	key := strings.TrimPrefix(id, "tiktoken/")

	encMu.Lock()
	defer encMu.Unlock()
	if e, ok := encCache[key]; ok {
		return e.enc, e.err
	}

	enc, encErr := tiktoken.GetEncoding(key)
	var err error
	if encErr != nil {
		var modelErr error
		enc, modelErr = tiktoken.EncodingForModel(key)
		if modelErr != nil {
			enc = nil
			err = fmt.Errorf("load tokenizer %s: %w", id, errors.Join(encErr, modelErr))
		}
	}
	encCache[key] = encEntry{enc: enc, err: err}
	return enc, err
}

// UseEmbeddedVocabulary makes encoders load their BPE ranks from vocabularies
// compiled into the binary instead of downloading them. Encoders already cached
// (including failed loads) are dropped so the next New retries.
func UseEmbeddedVocabulary() {
	encMu.Lock()
	defer encMu.Unlock()
	tiktoken.SetBpeLoader(tkloader.NewOfflineLoader())
	encCache = map[string]encEntry{}
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c == nil || c.enc == nil {
		return utf8.RuneCountInString(text) / charsPerToken
	}
	return len(c.enc.Encode(text, nil, nil))
}

// Mode reports the active counting strategy.
func (c *Counter) Mode() Mode {
	if c == nil {
		return ModeApproximate
	}
	return c.mode
}

// IsApproximate is true when counts are character-ratio estimates.
func (c *Counter) IsApproximate() bool {
	return c.Mode() == ModeApproximate
}

// Model returns the model id the Counter was built for.
func (c *Counter) Model() string {
	if c == nil {
		return ""
	}
	return c.model
}

// FallbackReason returns the encoder load error that forced approximate mode, if any.
func (c *Counter) FallbackReason() error {
	if c == nil {
		return nil
	}
	return c.fallback
}
