package core_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"po-generator/internal/core"
)

var testLoc = time.UTC

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func poInput(lineItemIDs ...int) core.PurchaseOrderInput {
	return core.PurchaseOrderInput{
		VendorID:      1,
		PaymentTerms:  "2% 10",
		LineItemIDs:   lineItemIDs,
		ApprovalStamp: "original",
		SignaturePath: "signatures/alice.png",
	}
}

func TestPurchaseOrder_CreateNumbersSequentially(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	day := time.Date(2025, 3, 7, 10, 0, 0, 0, testLoc)
	svc := core.NewPurchaseOrderService(pool, testLoc, fixedClock(day))
	items := core.NewLineItemService(pool)
	a := mustLineItem(t, items, "2", "Beakers", "10.00")
	b := mustLineItem(t, items, "3", "Flasks", "5.50")

	for i := 1; i <= 11; i++ {
		po, err := svc.CreatePO(ctx, 1, poInput(a.ID, b.ID))
		if err != nil {
			t.Fatalf("CreatePO #%d: %v", i, err)
		}
		want := fmt.Sprintf("CIT030725-%d", i)
		if po.Number != want {
			t.Errorf("expected %s, got %s", want, po.Number)
		}
	}

	var last int64
	if err := pool.QueryRow(ctx, "SELECT last_number FROM po_number_sequences WHERE day = '2025-03-07'").Scan(&last); err != nil {
		t.Fatalf("read sequence: %v", err)
	}
	if last != 11 {
		t.Errorf("expected counter at 11, got %d", last)
	}
}

func TestPurchaseOrder_CreateLoadsAggregate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	day := time.Date(2025, 3, 7, 10, 0, 0, 0, testLoc)
	svc := core.NewPurchaseOrderService(pool, testLoc, fixedClock(day))
	items := core.NewLineItemService(pool)
	a := mustLineItem(t, items, "2", "Beakers", "10.00")
	b := mustLineItem(t, items, "3", "Flasks", "5.50")

	po, err := svc.CreatePO(ctx, 1, poInput(b.ID, a.ID))
	if err != nil {
		t.Fatalf("CreatePO: %v", err)
	}
	if po.Vendor == nil || po.Vendor.Name != "Acme Corp" {
		t.Errorf("expected vendor Acme Corp, got %+v", po.Vendor)
	}
	if po.User == nil || po.User.DisplayName() != "Alice Nguyen" {
		t.Errorf("expected user Alice Nguyen, got %+v", po.User)
	}
	if len(po.LineItems) != 2 || po.LineItems[0].ID != b.ID || po.LineItems[1].ID != a.ID {
		t.Errorf("expected line items in submitted order [%d %d], got %+v", b.ID, a.ID, po.LineItems)
	}
	if got := po.TotalAmount().StringFixed(2); got != "36.50" {
		t.Errorf("expected total 36.50, got %s", got)
	}
	if po.PaymentDays != core.DefaultPaymentDays {
		t.Errorf("expected default payment days, got %d", po.PaymentDays)
	}
	if po.ApprovalStamp != core.StampOriginal {
		t.Errorf("expected stamp original, got %s", po.ApprovalStamp)
	}
}

func TestPurchaseOrder_ConcurrentCreateYieldsDistinctNumbers(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	day := time.Date(2025, 3, 7, 10, 0, 0, 0, testLoc)
	svc := core.NewPurchaseOrderService(pool, testLoc, fixedClock(day))
	li := mustLineItem(t, core.NewLineItemService(pool), "1", "Widget", "100.00")

	const n = 20
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CreatePO(ctx, 1, poInput(li.ID)); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent create error: %v", err)
	}

	var count, maxSeq int
	err := pool.QueryRow(ctx, `
		SELECT count(DISTINCT po_number), max(substring(po_number FROM '-([0-9]+)$')::int)
		FROM purchase_orders`).Scan(&count, &maxSeq)
	if err != nil {
		t.Fatalf("count PO numbers: %v", err)
	}
	if count != n || maxSeq != n {
		t.Errorf("expected %d distinct numbers ending at %d, got %d ending at %d", n, n, count, maxSeq)
	}
}

func TestPurchaseOrder_SeedsCounterFromExistingRows(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO purchase_orders (po_number, user_id, vendor_id, date)
		VALUES ('CIT030725-9', 1, 1, '2025-03-07'), ('CIT030725-10', 1, 1, '2025-03-07')`)
	if err != nil {
		t.Fatalf("seed legacy rows: %v", err)
	}

	day := time.Date(2025, 3, 7, 15, 0, 0, 0, testLoc)
	svc := core.NewPurchaseOrderService(pool, testLoc, fixedClock(day))
	li := mustLineItem(t, core.NewLineItemService(pool), "1", "Widget", "100.00")

	po, err := svc.CreatePO(ctx, 1, poInput(li.ID))
	if err != nil {
		t.Fatalf("CreatePO: %v", err)
	}
	if po.Number != "CIT030725-11" {
		t.Errorf("expected CIT030725-11 after legacy -10, got %s", po.Number)
	}
}

func TestPurchaseOrder_ExplicitNumberCollisionIsConflict(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	day := time.Date(2025, 3, 7, 10, 0, 0, 0, testLoc)
	svc := core.NewPurchaseOrderService(pool, testLoc, fixedClock(day))
	li := mustLineItem(t, core.NewLineItemService(pool), "1", "Widget", "100.00")

	first, err := svc.CreatePO(ctx, 1, poInput(li.ID))
	if err != nil {
		t.Fatalf("CreatePO: %v", err)
	}

	in := poInput(li.ID)
	in.Number = first.Number
	_, err = svc.CreatePO(ctx, 1, in)
	var conflict *core.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *ConflictError, got %v", err)
	}
	if conflict.Retryable() {
		t.Error("expected an explicit number collision not to be retryable")
	}
}

func TestPurchaseOrder_DateIsOverwrittenOnSave(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	li := mustLineItem(t, core.NewLineItemService(pool), "1", "Widget", "100.00")
	created := time.Date(2025, 3, 7, 10, 0, 0, 0, testLoc)
	po, err := core.NewPurchaseOrderService(pool, testLoc, fixedClock(created)).CreatePO(ctx, 1, poInput(li.ID))
	if err != nil {
		t.Fatalf("CreatePO: %v", err)
	}
	if got := po.Date.Format("2006-01-02"); got != "2025-03-07" {
		t.Errorf("expected date 2025-03-07, got %s", got)
	}

	later := time.Date(2025, 4, 2, 9, 0, 0, 0, testLoc)
	in := poInput(li.ID)
	in.Notes = "Revised"
	updated, err := core.NewPurchaseOrderService(pool, testLoc, fixedClock(later)).UpdatePO(ctx, 1, po.ID, in)
	if err != nil {
		t.Fatalf("UpdatePO: %v", err)
	}
	if got := updated.Date.Format("2006-01-02"); got != "2025-04-02" {
		t.Errorf("expected date reset to 2025-04-02, got %s", got)
	}
	if updated.Number != po.Number {
		t.Errorf("expected number to stay %s, got %s", po.Number, updated.Number)
	}
	if updated.Notes != "Revised" {
		t.Errorf("expected notes to be updated, got %q", updated.Notes)
	}
}

func TestPurchaseOrder_ValidationAndScoping(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewPurchaseOrderService(pool, testLoc, nil)
	li := mustLineItem(t, core.NewLineItemService(pool), "1", "Widget", "100.00")

	_, err := svc.CreatePO(ctx, 1, poInput(li.ID, 9999))
	var verr *core.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["line_item_ids"]) == 0 {
		t.Fatalf("expected line_item_ids validation error, got %v", err)
	}

	po, err := svc.CreatePO(ctx, 1, poInput(li.ID))
	if err != nil {
		t.Fatalf("CreatePO: %v", err)
	}
	if _, err := svc.GetPO(ctx, 2, po.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected another user's PO to be not found, got %v", err)
	}
	if err := svc.DeletePO(ctx, 2, po.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected delete by another user to be not found, got %v", err)
	}
	list, err := svc.GetPOs(ctx, 1)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one PO for owner, got %d (%v)", len(list), err)
	}
	if err := svc.DeletePO(ctx, 1, po.ID); err != nil {
		t.Fatalf("DeletePO: %v", err)
	}
}

func TestPurchaseOrder_SignatureRequirement(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewPurchaseOrderService(pool, testLoc, nil)
	li := mustLineItem(t, core.NewLineItemService(pool), "1", "Widget", "100.00")

	in := poInput(li.ID)
	in.SignaturePath = ""
	po, err := svc.CreatePO(ctx, 1, in)
	if err != nil {
		t.Fatalf("expected an unsigned PO when no signature is required, got %v", err)
	}
	if po.HasSignature() || po.SignaturePath != nil {
		t.Errorf("expected no stored signature, got %v", po.SignaturePath)
	}

	in.RequireSignature = true
	_, err = svc.CreatePO(ctx, 1, in)
	var verr *core.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["signature"]) == 0 {
		t.Fatalf("expected signature validation error, got %v", err)
	}
}

func TestCascadeDeletes(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	day := time.Date(2025, 3, 7, 10, 0, 0, 0, testLoc)
	pos := core.NewPurchaseOrderService(pool, testLoc, fixedClock(day))
	items := core.NewLineItemService(pool)
	templates := core.NewTemplateService(pool)

	a := mustLineItem(t, items, "1", "Only item", "1.00")
	b := mustLineItem(t, items, "1", "Shared", "2.00")
	c := mustLineItem(t, items, "1", "Extra", "3.00")

	lonely, err := pos.CreatePO(ctx, 1, poInput(a.ID))
	if err != nil {
		t.Fatalf("CreatePO lonely: %v", err)
	}
	mixed, err := pos.CreatePO(ctx, 1, poInput(b.ID, c.ID))
	if err != nil {
		t.Fatalf("CreatePO mixed: %v", err)
	}
	if _, err := templates.SaveLineItem(ctx, 1, a.ID, "favourite"); err != nil {
		t.Fatalf("SaveLineItem: %v", err)
	}

	t.Run("line item delete drops emptied POs and templates", func(t *testing.T) {
		if err := items.DeleteLineItem(ctx, a.ID); err != nil {
			t.Fatalf("DeleteLineItem: %v", err)
		}
		if _, err := pos.GetPO(ctx, 1, lonely.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("expected PO left without items to be deleted, got %v", err)
		}
		saved, _ := templates.GetSavedLineItems(ctx, 1)
		if len(saved) != 0 {
			t.Errorf("expected saved line item to be removed, got %d", len(saved))
		}

		if err := items.DeleteLineItem(ctx, c.ID); err != nil {
			t.Fatalf("DeleteLineItem: %v", err)
		}
		still, err := pos.GetPO(ctx, 1, mixed.ID)
		if err != nil {
			t.Fatalf("expected PO with remaining items to survive: %v", err)
		}
		if len(still.LineItems) != 1 || still.LineItems[0].ID != b.ID {
			t.Errorf("expected only line item %d to remain, got %+v", b.ID, still.LineItems)
		}
	})

	t.Run("vendor delete cascades to POs", func(t *testing.T) {
		if _, err := templates.SaveVendor(ctx, 1, 1, "main supplier"); err != nil {
			t.Fatalf("SaveVendor: %v", err)
		}
		if err := core.NewVendorService(pool).DeleteVendor(ctx, 1); err != nil {
			t.Fatalf("DeleteVendor: %v", err)
		}
		list, _ := pos.GetPOs(ctx, 1)
		if len(list) != 0 {
			t.Errorf("expected POs of deleted vendor to be gone, got %d", len(list))
		}
		saved, _ := templates.GetSavedVendors(ctx, 1)
		if len(saved) != 0 {
			t.Errorf("expected saved vendor to be gone, got %d", len(saved))
		}
	})
}
