// Package printer submits finished posters to a photo printer.
//
// The production path talks to CUPS through the lp and lpstat command
// line tools; a mock implementation stands in when no printer is
// attached. Two hardware profiles are carried: the DNP DS620 dye-sub
// (the booth's printer) and an Epson XP-8700 driven by TurboPrint,
// kept from the booth's first season.
package printer

import (
	"context"
	"strings"
)

// Quality selects the print resolution.
type Quality string

const (
	QualityDraft  Quality = "draft"
	QualityNormal Quality = "normal"
	QualityHigh   Quality = "high"
	QualityPhoto  Quality = "photo"
)

// PaperSize names a supported output size.
type PaperSize string

const (
	Paper4x6 PaperSize = "4x6"
	Paper5x7 PaperSize = "5x7"
)

// Job describes one print request.
type Job struct {
	FilePath string
	Copies   int
	Paper    PaperSize
	Quality  Quality
}

// Status reports printer health for the operator view.
type Status struct {
	Online     bool    `json:"online"`
	PaperLevel *int    `json:"paper_level,omitempty"`
	TonerLevel *int    `json:"toner_level,omitempty"`
	Error      *string `json:"error,omitempty"`
}

// Printer accepts jobs for a single output device.
type Printer interface {
	// Print submits a job and returns the spooler's job identifier.
	Print(ctx context.Context, job Job) (string, error)
	// Ready reports whether the device will accept jobs right now.
	Ready(ctx context.Context) bool
	// Status returns printer health.
	Status(ctx context.Context) (Status, error)
	// Name describes the device for logs and the operator view.
	Name() string
}

// Profile carries a printer model's CUPS queue names and driver options.
type Profile struct {
	PrimaryName   string
	FallbackNames []string
	PaperSize     string
	Resolution    string
	Options       map[string]string
}

// DNPDS620 is the profile for the DNP DS620 dye-sub under gutenprint.
func DNPDS620() Profile {
	return Profile{
		PrimaryName:   "DNP_DS620_Photo",
		FallbackNames: []string{"DS620", "DNP-DS620", "DNP_DS620"},
		PaperSize:     "w288h432",
		Resolution:    "300x300dpi",
		Options: map[string]string{
			"StpiShrinkOutput": "Expand",
			"StpLaminate":      "Glossy",
			"StpImageType":     "Photo",
		},
	}
}

// EpsonXP8700 is the legacy profile for the Epson XP-8700 via TurboPrint.
func EpsonXP8700() Profile {
	return Profile{
		PrimaryName:   "XP8700series-TurboPrint",
		FallbackNames: []string{"EPSON_XP_8700_Series_USB", "XP-8700", "EPSON_XP-8700_Series"},
		PaperSize:     "Borderless4x6in",
		Resolution:    "360x360dpi",
		Options: map[string]string{
			"MediaType": "ZedonetPhotoGlossy200g_6",
		},
	}
}

// paperSizeOption maps a requested paper size to the profile's CUPS
// PageSize value. DNP queues use gutenprint's wNNNhNNN form, everything
// else the borderless names.
func (p Profile) paperSizeOption(size PaperSize) string {
	dnp := strings.Contains(p.PrimaryName, "DNP")
	switch size {
	case Paper5x7:
		if dnp {
			return "w360h504"
		}
		return "Borderless5x7in"
	default:
		if dnp {
			return "w288h432"
		}
		return "Borderless4x6in"
	}
}

// resolutionOption maps a quality to the CUPS Resolution value.
func (p Profile) resolutionOption(q Quality) string {
	switch q {
	case QualityDraft:
		return "150x150dpi"
	case QualityNormal:
		return "300x300dpi"
	case QualityHigh:
		return "600x600dpi"
	default:
		return p.Resolution
	}
}
