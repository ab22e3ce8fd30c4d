package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Default layout targets in twips (1/1440 inch). 7600 twips is just
// over 5.2 inches, a comfortable image width on Letter/A4; 20000 twips
// lets wide tables use the full printable width of a landscape page.
const (
	DefaultMaxImageWidth = 7600
	DefaultMaxTableWidth = 20000
)

// LayoutConfig holds the page-fitting targets applied during RTF
// post-processing. All values are in twips.
type LayoutConfig struct {
	// MaxImageWidth is the widest an embedded picture may be. Wider
	// pictures are scaled down, preserving aspect ratio.
	MaxImageWidth int `json:"max_image_width" yaml:"max_image_width"`

	// MaxTableWidth is the widest a table row may be. Wider rows have
	// every column scaled proportionally.
	MaxTableWidth int `json:"max_table_width" yaml:"max_table_width"`
}

// Validate checks that both layout targets are positive.
func (c LayoutConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.MaxImageWidth, validation.Required, validation.Min(1)),
		validation.Field(&c.MaxTableWidth, validation.Required, validation.Min(1)),
	)
}

// ConvertConfig holds the settings for one conversion run.
type ConvertConfig struct {
	// Layout holds the post-processing size targets.
	Layout LayoutConfig `json:"layout" yaml:"layout"`

	// PandocPath optionally points at a specific pandoc binary. When
	// empty the binary is resolved from a bundled copy or PATH.
	PandocPath string `json:"pandoc_path,omitempty" yaml:"pandoc_path,omitempty"`

	// Viewer optionally names the application used to open the result.
	// When empty the OS default handler for .rtf is used.
	Viewer string `json:"viewer,omitempty" yaml:"viewer,omitempty"`

	// NoOpen suppresses opening the result in a viewer.
	NoOpen bool `json:"no_open" yaml:"no_open"`

	// Timeout bounds the external converter call. Zero means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// LogFile is the path of the debug log file. Empty disables file
	// logging; console logging is always on.
	LogFile string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
}

// Validate checks the run settings.
func (c ConvertConfig) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// DefaultConvertConfig returns the settings used when no config file,
// environment variable, or flag overrides them.
func DefaultConvertConfig() ConvertConfig {
	return ConvertConfig{
		Layout: LayoutConfig{
			MaxImageWidth: DefaultMaxImageWidth,
			MaxTableWidth: DefaultMaxTableWidth,
		},
		LogFile: "conversion.log",
	}
}
