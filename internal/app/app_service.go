package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"po-generator/internal/core"
	"po-generator/internal/logger"
	"po-generator/internal/metrics"
	"po-generator/internal/podoc"
	"po-generator/internal/storage"
)

// Renderer turns a loaded purchase order into a document.
type Renderer interface {
	Render(ctx context.Context, po *core.PurchaseOrder) ([]byte, error)
	Draw(ctx context.Context, po *core.PurchaseOrder, c podoc.Canvas) error
}

// SignatureStore keeps uploaded signature images.
type SignatureStore interface {
	Save(r io.Reader) (string, error)
	Remove(stored string) error
}

// Services groups the domain services the application is built on.
type Services struct {
	Users      core.UserService
	Vendors    core.VendorService
	LineItems  core.LineItemService
	Templates  core.TemplateService
	Orders     core.PurchaseOrderService
	Renderer   Renderer
	Signatures SignatureStore

	// Metrics is optional.
	Metrics *metrics.Metrics

	// RequireSignature makes a stored signature mandatory on save.
	RequireSignature bool
}

type appService struct {
	Services
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(svcs Services) ApplicationService {
	return &appService{Services: svcs}
}

func (s *appService) AuthenticateUser(ctx context.Context, username, password string) (*UserSession, error) {
	u, err := s.Users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName(),
		IsStaff:     u.IsStaff,
	}, nil
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: u}, nil
}

func (s *appService) ListUsers(ctx context.Context, filter core.UserFilter) (*UsersResult, error) {
	users, err := s.Users.ListUsers(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &UsersResult{Users: users}, nil
}

func (s *appService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResult, error) {
	u, err := s.Users.CreateUser(ctx, core.UserInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("user created", zap.String("username", u.Username), zap.Bool("staff", u.IsStaff))
	return &UserResult{User: u}, nil
}

func (req VendorRequest) input() core.VendorInput {
	return core.VendorInput{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
	}
}

func (s *appService) ListVendors(ctx context.Context) (*VendorsResult, error) {
	vendors, err := s.Vendors.GetVendors(ctx)
	if err != nil {
		return nil, err
	}
	return &VendorsResult{Vendors: vendors}, nil
}

func (s *appService) GetVendor(ctx context.Context, id int) (*VendorResult, error) {
	v, err := s.Vendors.GetVendor(ctx, id)
	if err != nil {
		return nil, err
	}
	return &VendorResult{Vendor: v}, nil
}

func (s *appService) CreateVendor(ctx context.Context, req VendorRequest) (*VendorResult, error) {
	v, err := s.Vendors.CreateVendor(ctx, req.input())
	if err != nil {
		return nil, err
	}
	return &VendorResult{Vendor: v}, nil
}

func (s *appService) UpdateVendor(ctx context.Context, id int, req VendorRequest) (*VendorResult, error) {
	v, err := s.Vendors.UpdateVendor(ctx, id, req.input())
	if err != nil {
		return nil, err
	}
	return &VendorResult{Vendor: v}, nil
}

func (s *appService) DeleteVendor(ctx context.Context, id int) error {
	return s.Vendors.DeleteVendor(ctx, id)
}

func (req LineItemRequest) input() core.LineItemInput {
	return core.LineItemInput{Quantity: req.Quantity, Description: req.Description, Rate: req.Rate}
}

func (s *appService) ListLineItems(ctx context.Context) (*LineItemsResult, error) {
	items, err := s.LineItems.GetLineItems(ctx)
	if err != nil {
		return nil, err
	}
	return &LineItemsResult{LineItems: items}, nil
}

func (s *appService) GetLineItem(ctx context.Context, id int) (*LineItemResult, error) {
	li, err := s.LineItems.GetLineItem(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LineItemResult{LineItem: li}, nil
}

func (s *appService) CreateLineItem(ctx context.Context, req LineItemRequest) (*LineItemResult, error) {
	li, err := s.LineItems.CreateLineItem(ctx, req.input())
	if err != nil {
		return nil, err
	}
	return &LineItemResult{LineItem: li}, nil
}

func (s *appService) UpdateLineItem(ctx context.Context, id int, req LineItemRequest) (*LineItemResult, error) {
	li, err := s.LineItems.UpdateLineItem(ctx, id, req.input())
	if err != nil {
		return nil, err
	}
	return &LineItemResult{LineItem: li}, nil
}

func (s *appService) DeleteLineItem(ctx context.Context, id int) error {
	return s.LineItems.DeleteLineItem(ctx, id)
}

func (s *appService) ListSavedVendors(ctx context.Context, userID int) (*SavedVendorsResult, error) {
	saved, err := s.Templates.GetSavedVendors(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SavedVendorsResult{SavedVendors: saved}, nil
}

func (s *appService) SaveVendor(ctx context.Context, req SaveTemplateRequest) (*core.SavedVendor, error) {
	return s.Templates.SaveVendor(ctx, req.UserID, req.TargetID, req.Name)
}

func (s *appService) DeleteSavedVendor(ctx context.Context, userID, id int) error {
	return s.Templates.DeleteSavedVendor(ctx, userID, id)
}

func (s *appService) ListSavedLineItems(ctx context.Context, userID int) (*SavedLineItemsResult, error) {
	saved, err := s.Templates.GetSavedLineItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SavedLineItemsResult{SavedLineItems: saved}, nil
}

func (s *appService) SaveLineItem(ctx context.Context, req SaveTemplateRequest) (*core.SavedLineItem, error) {
	return s.Templates.SaveLineItem(ctx, req.UserID, req.TargetID, req.Name)
}

func (s *appService) DeleteSavedLineItem(ctx context.Context, userID, id int) error {
	return s.Templates.DeleteSavedLineItem(ctx, userID, id)
}

func (s *appService) ListPurchaseOrders(ctx context.Context, userID int) (*PurchaseOrdersResult, error) {
	orders, err := s.Orders.GetPOs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrdersResult{Orders: orders}, nil
}

func (s *appService) GetPurchaseOrder(ctx context.Context, userID, poID int) (*PurchaseOrderResult, error) {
	po, err := s.Orders.GetPO(ctx, userID, poID)
	if err != nil {
		return nil, err
	}
	return &PurchaseOrderResult{Order: po}, nil
}

// storeSignature saves an upload, mapping content problems to a validation
// error on the signature field.
func (s *appService) storeSignature(r io.Reader) (string, error) {
	stored, err := s.Signatures.Save(r)
	switch {
	case err == nil:
		return stored, nil
	case errors.Is(err, storage.ErrEmptyUpload):
		return "", core.NewValidationError("signature", "The submitted file is empty.")
	case errors.Is(err, storage.ErrNotAnImage):
		return "", core.NewValidationError("signature",
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	case errors.Is(err, storage.ErrTooLarge):
		return "", core.NewValidationError("signature", "The submitted file is too large.")
	default:
		return "", fmt.Errorf("store signature: %w", err)
	}
}

func (req PurchaseOrderRequest) input(signaturePath string) core.PurchaseOrderInput {
	return core.PurchaseOrderInput{
		VendorID:      req.VendorID,
		PaymentTerms:  req.PaymentTerms,
		PaymentDays:   req.PaymentDays,
		LineItemIDs:   req.LineItemIDs,
		Notes:         req.Notes,
		ApprovalStamp: req.ApprovalStamp,
		SignaturePath: signaturePath,
	}
}

func (s *appService) orderInput(req PurchaseOrderRequest, signaturePath string) core.PurchaseOrderInput {
	in := req.input(signaturePath)
	in.RequireSignature = s.RequireSignature
	return in
}

func (s *appService) CreatePurchaseOrder(ctx context.Context, req PurchaseOrderRequest) (*PurchaseOrderResult, error) {
	log := logger.FromContext(ctx)

	var sigPath string
	if req.Signature != nil {
		p, err := s.storeSignature(req.Signature)
		if err != nil {
			return nil, err
		}
		sigPath = p
	}

	po, err := s.Orders.CreatePO(ctx, req.UserID, s.orderInput(req, sigPath))
	if err != nil {
		s.discardSignature(log, sigPath)
		var conflict *core.ConflictError
		if errors.As(err, &conflict) {
			if s.Metrics != nil {
				s.Metrics.PONumberConflicts.Inc()
			}
			log.Warn("purchase order number conflict", zap.String("po_number", conflict.Value))
		}
		return nil, err
	}

	if s.Metrics != nil {
		s.Metrics.PONumbersAllocated.Inc()
	}
	log.Info("purchase order created",
		zap.Int("po_id", po.ID),
		zap.String("po_number", po.Number),
		zap.Int("line_items", len(po.LineItems)))
	return &PurchaseOrderResult{Order: po}, nil
}

func (s *appService) UpdatePurchaseOrder(ctx context.Context, poID int, req PurchaseOrderRequest) (*PurchaseOrderResult, error) {
	log := logger.FromContext(ctx)

	existing, err := s.Orders.GetPO(ctx, req.UserID, poID)
	if err != nil {
		return nil, err
	}
	var oldPath string
	if existing.HasSignature() {
		oldPath = *existing.SignaturePath
	}

	sigPath := oldPath
	uploaded := false
	if req.Signature != nil {
		p, err := s.storeSignature(req.Signature)
		if err != nil {
			return nil, err
		}
		sigPath, uploaded = p, true
	}

	po, err := s.Orders.UpdatePO(ctx, req.UserID, poID, s.orderInput(req, sigPath))
	if err != nil {
		if uploaded {
			s.discardSignature(log, sigPath)
		}
		return nil, err
	}
	if uploaded {
		s.discardSignature(log, oldPath)
	}

	log.Info("purchase order updated", zap.Int("po_id", po.ID), zap.String("po_number", po.Number))
	return &PurchaseOrderResult{Order: po}, nil
}

func (s *appService) discardSignature(log *zap.Logger, stored string) {
	if stored == "" {
		return
	}
	if err := s.Signatures.Remove(stored); err != nil {
		log.Warn("failed to remove signature", zap.String("path", stored), zap.Error(err))
	}
}

func (s *appService) DeletePurchaseOrder(ctx context.Context, userID, poID int) error {
	po, err := s.Orders.GetPO(ctx, userID, poID)
	if err != nil {
		return err
	}
	if err := s.Orders.DeletePO(ctx, userID, poID); err != nil {
		return err
	}
	if po.HasSignature() {
		s.discardSignature(logger.FromContext(ctx), *po.SignaturePath)
	}
	return nil
}

// PDFFilename is the download name of a purchase order document.
func PDFFilename(number string) string {
	return fmt.Sprintf("PO_%s.pdf", number)
}

func (s *appService) RenderPurchaseOrder(ctx context.Context, userID, poID int) (*DocumentResult, error) {
	po, err := s.Orders.GetPO(ctx, userID, poID)
	if err != nil {
		return nil, err
	}
	content, err := s.Renderer.Render(ctx, po)
	if err != nil {
		logger.FromContext(ctx).Error("render failed", zap.Int("po_id", poID), zap.Error(err))
		return nil, err
	}
	return &DocumentResult{
		Filename:    PDFFilename(po.Number),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func (s *appService) OutlinePurchaseOrder(ctx context.Context, userID, poID int, w io.Writer) error {
	po, err := s.Orders.GetPO(ctx, userID, poID)
	if err != nil {
		return err
	}
	rec := &podoc.Recorder{}
	if err := s.Renderer.Draw(ctx, po, rec); err != nil {
		return err
	}
	return rec.WriteOutline(w)
}
