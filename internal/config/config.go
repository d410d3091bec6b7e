package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"

	"ref-corpus/internal/chunker"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds runtime configuration for every command. Each command reads the
// sections it needs.
type Config struct {
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	TokenizerEncoding string `env:"TOKENIZER_ENCODING" envDefault:"cl100k_base"`

	Chunk   ChunkConfig   `envPrefix:"CHUNK_"`
	Fetch   FetchConfig   `envPrefix:"FETCH_"`
	Clean   CleanConfig   `envPrefix:"CLEAN_"`
	Merge   MergeConfig   `envPrefix:"MERGE_"`
	Combine CombineConfig `envPrefix:"COMBINE_"`
	Count   CountConfig   `envPrefix:"COUNT_"`
	Match   MatchConfig   `envPrefix:"MATCH_"`
}

// ChunkConfig sizes windows for a fixed-context model.
type ChunkConfig struct {
	WindowSize          int    `env:"WINDOW_SIZE" envDefault:"4096" validate:"gt=0,gtfield=Stride"`
	Stride              int    `env:"STRIDE" envDefault:"512" validate:"gt=0"`
	MinLen              int    `env:"MIN_LEN" envDefault:"10" validate:"min=1"`
	ShortDocumentPolicy string `env:"SHORT_DOCUMENT_POLICY" envDefault:"passthrough" validate:"oneof=passthrough window"`
	OnAdapterError      string `env:"ON_ADAPTER_ERROR" envDefault:"fail" validate:"oneof=fail skip"`

	Input  string `env:"INPUT" envDefault:"training_set.jsonl" validate:"required"`
	Output string `env:"OUTPUT" envDefault:"training_set_chunked.jsonl" validate:"required"`
}

// FetchConfig drives the open-access lookup and download loop.
type FetchConfig struct {
	CSVPath     string `env:"CSV" envDefault:"extracted_dois.csv" validate:"required"`
	DOIColumn   string `env:"DOI_COLUMN" envDefault:"DOI" validate:"required"`
	LabelColumn string `env:"LABEL_COLUMN"`
	OutputDir   string `env:"OUTPUT_DIR" envDefault:"ref_texts" validate:"required"`
	LogPath     string `env:"LOG" envDefault:"extraction_log.csv" validate:"required"`
	ExtractText bool   `env:"EXTRACT_TEXT" envDefault:"true"`

	UnpaywallURL   string `env:"UNPAYWALL_URL" envDefault:"https://api.unpaywall.org" validate:"required,url"`
	UnpaywallEmail string `env:"UNPAYWALL_EMAIL" validate:"required,email"`
	UserAgent      string `env:"USER_AGENT" envDefault:"Mozilla/5.0"`

	Attempts        int           `env:"ATTEMPTS" envDefault:"3" validate:"min=1,max=10"`
	RetryDelay      time.Duration `env:"RETRY_DELAY" envDefault:"2s"`
	Delay           time.Duration `env:"DELAY" envDefault:"1s"`
	LookupTimeout   time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	DownloadTimeout time.Duration `env:"DOWNLOAD_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	MinPDFBytes     int64         `env:"MIN_PDF_BYTES" envDefault:"10000" validate:"min=0"`
}

type CleanConfig struct {
	Input    string `env:"INPUT" envDefault:"combined_training_data.json" validate:"required"`
	Output   string `env:"OUTPUT" envDefault:"cleaned_training_data.jsonl" validate:"required"`
	MinChars int    `env:"MIN_CHARS" envDefault:"500" validate:"min=0"`
}

type MergeConfig struct {
	Old    string `env:"OLD" envDefault:"ref_training_data.json" validate:"required"`
	New    string `env:"NEW" envDefault:"newdata.json" validate:"required"`
	Output string `env:"OUTPUT" envDefault:"combined_training_data.json" validate:"required"`
}

type CombineConfig struct {
	CSVPath     string `env:"CSV" validate:"required"`
	TextsDir    string `env:"TEXTS_DIR" validate:"required"`
	Output      string `env:"OUTPUT" validate:"required"`
	DOIColumn   string `env:"DOI_COLUMN" envDefault:"DOI" validate:"required"`
	LabelColumn string `env:"LABEL_COLUMN" envDefault:"Assigned Star" validate:"required"`
}

type CountConfig struct {
	// Input is a .zip archive or a JSONL file.
	Input string `env:"INPUT" validate:"required"`
}

type MatchConfig struct {
	CSVPath       string `env:"CSV" envDefault:"extracted_dois.csv" validate:"required"`
	DOIColumn     string `env:"DOI_COLUMN" envDefault:"DOI" validate:"required"`
	PDFDir        string `env:"PDF_DIR" envDefault:"ref_pdfs" validate:"required"`
	Mode          string `env:"MODE" envDefault:"exact" validate:"oneof=exact fuzzy"`
	Output        string `env:"OUTPUT" envDefault:"matched_dois.csv" validate:"required"`
	UnmatchedPath string `env:"UNMATCHED_OUTPUT" envDefault:"unmatched_pdfs.csv"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Validate checks any config section against its validate tags.
func Validate(section any) error {
	if err := validate.Struct(section); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Options converts the section into windowing options, failing fast with
// chunker.ErrInvalidConfig when the relationship between the sizes is wrong.
func (c ChunkConfig) Options() (chunker.Options, error) {
	if err := validate.Struct(c); err != nil {
		return chunker.Options{}, fmt.Errorf("%w: %v", chunker.ErrInvalidConfig, err)
	}
	opts := chunker.Options{
		WindowSize: c.WindowSize,
		Stride:     c.Stride,
		MinLen:     c.MinLen,
		Policy:     chunker.ShortDocumentPolicy(c.ShortDocumentPolicy),
	}
	return opts, opts.Validate()
}
