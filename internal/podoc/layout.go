// Package podoc renders a purchase order onto a single US-Letter page.
//
// Coordinates are inches from the top-left corner of the page with Y
// growing downward. Text is positioned by its baseline and images by their
// bottom-left corner.
package podoc

import "po-generator/internal/core"

// Font is a core PDF font selection.
type Font struct {
	Family string
	Style  string
	Size   float64
}

// Layout holds every coordinate, font and budget used by the renderer.
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	BottomMargin float64
	LeftX        float64
	RightX       float64
	RuleEndX     float64
	LineHeight   float64

	TitleFont   Font
	MetaFont    Font
	HeadingFont Font
	BodyFont    Font
	ColumnFont  Font
	TotalFont   Font

	LogoAsset string
	LogoX     float64
	LogoY     float64
	LogoWidth float64

	TitleY  float64
	NumberY float64
	DateY   float64

	CompanyY     float64
	CompanyLines []string

	PartyY      float64
	ShipToX     float64
	ShipToLines []string

	TermsY float64

	ItemsLabelY  float64
	ColumnsY     float64
	ColumnRuleY  float64
	FirstRowY    float64
	QtyX         float64
	DescriptionX float64
	RateX        float64
	AmountX      float64

	DescriptionWidth int
	NotesWidth       int

	// Offsets below are relative to the cursor left after the last table row.
	TotalRuleOffset float64
	TotalOffset     float64
	TotalLabelX     float64
	TotalAmountX    float64

	NotesLabelOffset float64
	NotesFirstOffset float64

	SignatureImageOffset float64
	SignatureImageWidth  float64
	SignatureRuleOffset  float64
	SignatureRuleEndX    float64
	SignatureLabelOffset float64
	GeneratedByOffset    float64

	StampOffset  float64
	StampX       float64
	StampWidth   float64
	StampAssets  map[core.StampKind]string
	StampOpacity map[core.StampKind]float64
}

// DefaultLayout is the production page layout.
var DefaultLayout = Layout{
	PageWidth:    8.5,
	PageHeight:   11,
	BottomMargin: 0.5,
	LeftX:        1,
	RightX:       7.5,
	RuleEndX:     7,
	LineHeight:   0.2,

	TitleFont:   Font{"Helvetica", "B", 18},
	MetaFont:    Font{"Helvetica", "", 12},
	HeadingFont: Font{"Helvetica", "B", 12},
	BodyFont:    Font{"Helvetica", "", 10},
	ColumnFont:  Font{"Helvetica", "B", 10},
	TotalFont:   Font{"Helvetica", "B", 12},

	LogoAsset: "cit-logo.png",
	LogoX:     1,
	LogoY:     1.3,
	LogoWidth: 2,

	TitleY:  0.9,
	NumberY: 1.15,
	DateY:   1.4,

	CompanyY: 1.6,
	CompanyLines: []string{
		"Chem Is Try Inc",
		"160-4 Liberty Street",
		"Metuchen, NJ 08840",
		"Phone: 732-372-7311",
		"Email: info@chem-is-try.com",
		"Website: www.chem-is-try.com",
	},

	PartyY:  3.0,
	ShipToX: 5,
	ShipToLines: []string{
		"Chem Is Try Inc",
		"160-4 Liberty Street",
		"Metuchen, NJ 08840 US",
	},

	TermsY: 4.2,

	ItemsLabelY:  4.8,
	ColumnsY:     5.1,
	ColumnRuleY:  5.2,
	FirstRowY:    5.5,
	QtyX:         1,
	DescriptionX: 1.5,
	RateX:        5,
	AmountX:      6,

	DescriptionWidth: 50,
	NotesWidth:       80,

	TotalRuleOffset: 0.1,
	TotalOffset:     0.4,
	TotalLabelX:     5,
	TotalAmountX:    6,

	NotesLabelOffset: 0.8,
	NotesFirstOffset: 1,

	SignatureImageOffset: 1.9,
	SignatureImageWidth:  2,
	SignatureRuleOffset:  2,
	SignatureRuleEndX:    3,
	SignatureLabelOffset: 2.2,
	GeneratedByOffset:    2.5,

	StampOffset: 1.5,
	StampX:      5,
	StampWidth:  1.5,
	StampAssets: map[core.StampKind]string{
		core.StampKindOriginal: "stamp-original.png",
		core.StampKindCIT:      "stamp-cit.png",
	},
	StampOpacity: map[core.StampKind]float64{
		core.StampKindOriginal: 0.85,
		core.StampKindCIT:      0.95,
	},
}

// printableBottom is the lowest baseline that stays inside the margin.
func (l Layout) printableBottom() float64 {
	return l.PageHeight - l.BottomMargin
}
