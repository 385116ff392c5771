package podoc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"po-generator/internal/core"
)

// SignatureSource loads a stored signature image by its stored path.
type SignatureSource interface {
	Load(path string) ([]byte, error)
}

// Observer receives render metrics. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveRender(outcome string, elapsed time.Duration)
	AssetOmitted(asset string)
}

// Renderer lays out purchase orders. It holds no per-render state and is
// safe for concurrent use.
type Renderer struct {
	layout           Layout
	assets           AssetResolver
	signatures       SignatureSource
	requireSignature bool
	log              *zap.Logger
	observer         Observer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLayout replaces DefaultLayout.
func WithLayout(l Layout) Option {
	return func(r *Renderer) { r.layout = l }
}

// WithRequireSignature makes a missing signature a render error.
func WithRequireSignature(require bool) Option {
	return func(r *Renderer) { r.requireSignature = require }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

func WithObserver(o Observer) Option {
	return func(r *Renderer) { r.observer = o }
}

// NewRenderer builds a renderer reading static images from assets and
// signatures from sigs. A signature is required unless disabled.
func NewRenderer(assets AssetResolver, sigs SignatureSource, opts ...Option) *Renderer {
	r := &Renderer{
		layout:           DefaultLayout,
		assets:           assets,
		signatures:       sigs,
		requireSignature: true,
		log:              zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render produces the PDF for po. On error no bytes are returned.
func (r *Renderer) Render(ctx context.Context, po *core.PurchaseOrder) ([]byte, error) {
	start := time.Now()
	out, err := r.render(po)
	if r.observer != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		r.observer.ObserveRender(outcome, time.Since(start))
	}
	return out, err
}

func (r *Renderer) render(po *core.PurchaseOrder) ([]byte, error) {
	if err := r.validate(po); err != nil {
		return nil, err
	}
	sig, err := r.loadSignature(po)
	if err != nil {
		return nil, err
	}

	c := NewPDFCanvas(Metadata{
		Title:   "Purchase Order #" + po.Number,
		Subject: "Purchase order for " + po.Vendor.Name,
		Author:  generatedBy(po),
		Date:    documentDate(po),
	})
	if err := r.draw(po, sig, c); err != nil {
		return nil, err
	}
	out, err := c.Bytes()
	if err != nil {
		return nil, &core.RenderError{Reason: "encode document", Err: err}
	}
	return out, nil
}

// Draw lays po out onto c. It performs the same checks as Render, so an
// invalid purchase order draws nothing.
func (r *Renderer) Draw(_ context.Context, po *core.PurchaseOrder, c Canvas) error {
	if err := r.validate(po); err != nil {
		return err
	}
	sig, err := r.loadSignature(po)
	if err != nil {
		return err
	}
	return r.draw(po, sig, c)
}

func (r *Renderer) validate(po *core.PurchaseOrder) error {
	if po == nil {
		return &core.RenderError{Reason: "no purchase order"}
	}
	if po.Vendor == nil {
		return &core.RenderError{Reason: "vendor missing"}
	}
	if missing := po.Vendor.MissingAddressFields(); len(missing) > 0 {
		return &core.RenderError{Reason: "vendor address incomplete: " + strings.Join(missing, ", ")}
	}
	if len(po.LineItems) == 0 {
		return &core.RenderError{Reason: "no line items"}
	}
	if !po.ApprovalStamp.Valid() {
		return &core.RenderError{Reason: fmt.Sprintf("unknown approval stamp %q", po.ApprovalStamp)}
	}
	return nil
}

// loadSignature returns nil without error only when no signature is
// attached and none is required.
func (r *Renderer) loadSignature(po *core.PurchaseOrder) (*Asset, error) {
	if !po.HasSignature() {
		if r.requireSignature {
			return nil, &core.RenderError{Reason: "signature missing"}
		}
		return nil, nil
	}
	if r.signatures == nil {
		return nil, &core.RenderError{Reason: "signature unreadable", Err: errors.New("no signature source")}
	}
	data, err := r.signatures.Load(*po.SignaturePath)
	if err != nil {
		return nil, &core.RenderError{Reason: "signature unreadable", Err: err}
	}
	a, err := DecodeAsset("signature", data)
	if err != nil {
		return nil, &core.RenderError{Reason: "signature unreadable", Err: err}
	}
	return a, nil
}

func (r *Renderer) draw(po *core.PurchaseOrder, sig *Asset, c Canvas) error {
	l := r.layout
	log := r.log.With(zap.String("po_number", po.Number))

	r.drawHeader(log, c, po)

	c.SetFont(l.BodyFont)
	for i, s := range l.CompanyLines {
		c.Text(l.LeftX, l.CompanyY+float64(i)*l.LineHeight, s)
	}

	c.SetFont(l.HeadingFont)
	c.Text(l.LeftX, l.PartyY, "Vendor:")
	c.Text(l.ShipToX, l.PartyY, "Ship To:")
	c.SetFont(l.BodyFont)
	for i, s := range vendorLines(po.Vendor) {
		c.Text(l.LeftX, l.PartyY+float64(i+1)*l.LineHeight, s)
	}
	for i, s := range l.ShipToLines {
		c.Text(l.ShipToX, l.PartyY+float64(i+1)*l.LineHeight, s)
	}

	c.SetFont(l.HeadingFont)
	c.Text(l.LeftX, l.TermsY, "Payment Terms:")
	c.SetFont(l.BodyFont)
	c.Text(l.LeftX, l.TermsY+l.LineHeight, paymentTerms(po.PaymentDays, po.PaymentTerms))

	y := r.drawLineItems(c, po)

	c.Line(l.LeftX, y+l.TotalRuleOffset, l.RuleEndX, y+l.TotalRuleOffset)
	c.SetFont(l.TotalFont)
	c.Text(l.TotalLabelX, y+l.TotalOffset, "Total:")
	c.Text(l.TotalAmountX, y+l.TotalOffset, money(po.TotalAmount()))

	if notes := chunk(po.Notes, l.NotesWidth); len(notes) > 0 {
		c.SetFont(l.HeadingFont)
		c.Text(l.LeftX, y+l.NotesLabelOffset, "Notes:")
		c.SetFont(l.BodyFont)
		for i, s := range notes {
			c.Text(l.LeftX, y+l.NotesFirstOffset+float64(i)*l.LineHeight, s)
		}
		y += l.NotesFirstOffset + float64(len(notes))*l.LineHeight
	}

	if sig != nil {
		if err := c.Image(sig, l.LeftX, y+l.SignatureImageOffset, l.SignatureImageWidth); err != nil {
			return &core.RenderError{Reason: "signature unreadable", Err: err}
		}
	}
	c.Line(l.LeftX, y+l.SignatureRuleOffset, l.SignatureRuleEndX, y+l.SignatureRuleOffset)
	c.SetFont(l.BodyFont)
	c.Text(l.LeftX, y+l.SignatureLabelOffset, "Authorized Signature")
	if by := generatedBy(po); by != "" {
		c.Text(l.LeftX, y+l.GeneratedByOffset, "Generated by: "+by)
	}

	r.drawStamps(log, c, po.ApprovalStamp.Stamps(), y+l.StampOffset)

	if bottom := y + l.GeneratedByOffset; bottom > l.printableBottom() {
		log.Warn("purchase order overflows the page",
			zap.Int("line_items", len(po.LineItems)),
			zap.Float64("bottom_in", bottom),
			zap.Float64("limit_in", l.printableBottom()))
	}
	return nil
}

func (r *Renderer) drawHeader(log *zap.Logger, c Canvas, po *core.PurchaseOrder) {
	l := r.layout
	if logo := r.optional(log, l.LogoAsset); logo != nil {
		if err := c.Image(logo, l.LogoX, l.LogoY, l.LogoWidth); err != nil {
			r.omit(log, l.LogoAsset, err)
		}
	}

	c.SetFont(l.TitleFont)
	c.TextRight(l.RightX, l.TitleY, "PURCHASE ORDER")
	c.SetFont(l.HeadingFont)
	c.TextRight(l.RightX, l.NumberY, "#"+po.Number)
	c.SetFont(l.MetaFont)
	c.TextRight(l.RightX, l.DateY, "Date: "+formatDate(po.Date))
}

// drawLineItems draws the table and returns the cursor below the last row.
func (r *Renderer) drawLineItems(c Canvas, po *core.PurchaseOrder) float64 {
	l := r.layout

	c.SetFont(l.HeadingFont)
	c.Text(l.LeftX, l.ItemsLabelY, "Line Items:")
	c.SetFont(l.ColumnFont)
	c.Text(l.QtyX, l.ColumnsY, "Qty")
	c.Text(l.DescriptionX, l.ColumnsY, "Description")
	c.Text(l.RateX, l.ColumnsY, "Rate")
	c.Text(l.AmountX, l.ColumnsY, "Amount")
	c.Line(l.LeftX, l.ColumnRuleY, l.RuleEndX, l.ColumnRuleY)

	c.SetFont(l.BodyFont)
	y := l.FirstRowY
	for _, item := range po.LineItems {
		c.Text(l.QtyX, y, quantity(item.Quantity))
		lines := chunk(item.Description, l.DescriptionWidth)
		for i, s := range lines {
			c.Text(l.DescriptionX, y+float64(i)*l.LineHeight, s)
		}
		c.Text(l.RateX, y, money(item.Rate))
		c.Text(l.AmountX, y, money(item.Amount()))
		y += l.LineHeight * float64(len(lines)+1)
	}
	return y
}

// drawStamps composites every selected stamp at the same anchor; opacity
// keeps the overlap legible.
func (r *Renderer) drawStamps(log *zap.Logger, c Canvas, kinds []core.StampKind, bottom float64) {
	l := r.layout
	var loaded []*Asset
	var alphas []float64
	for _, k := range kinds {
		if a := r.optional(log, l.StampAssets[k]); a != nil {
			loaded = append(loaded, a)
			alphas = append(alphas, l.StampOpacity[k])
		}
	}
	for i, a := range loaded {
		c.SetAlpha(alphas[i])
		if err := c.Image(a, l.StampX, bottom, l.StampWidth); err != nil {
			r.omit(log, a.Name, err)
		}
		c.SetAlpha(1)
	}
}

// optional loads a cosmetic image, logging and counting a miss.
func (r *Renderer) optional(log *zap.Logger, name string) *Asset {
	img := LoadOptional(r.assets, name)
	if !img.OK() {
		r.omit(log, name, img.Err)
		return nil
	}
	return img.Asset
}

func (r *Renderer) omit(log *zap.Logger, name string, err error) {
	log.Warn("optional image omitted", zap.String("asset", name), zap.Error(err))
	if r.observer != nil {
		r.observer.AssetOmitted(name)
	}
}

func generatedBy(po *core.PurchaseOrder) string {
	if po.User == nil {
		return ""
	}
	return po.User.DisplayName()
}

// documentDate is the timestamp written as the PDF creation date.
func documentDate(po *core.PurchaseOrder) time.Time {
	if !po.UpdatedAt.IsZero() {
		return po.UpdatedAt
	}
	return po.CreatedAt
}
