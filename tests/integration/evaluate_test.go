//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestEvaluate_BulkDiscount(t *testing.T) {
	resp := doPost(t, "/api/cart/evaluate", evaluateRequest{
		Items: []evaluateItem{
			{ProductID: "ticket-entry-2", Quantity: 20},
		},
	}, seedAPIKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[evaluateResponse](t, resp)
	if body.TicketQuantity != 20 {
		t.Errorf("ticketQuantity: got %d, want 20", body.TicketQuantity)
	}
	if body.FreeTickets != 10 {
		t.Errorf("freeTickets: got %d, want 10", body.FreeTickets)
	}
	// 10 free tickets at the seeded 2.00 ticket price.
	if body.DiscountAmount != "20.00" {
		t.Errorf("discountAmount: got %q, want 20.00", body.DiscountAmount)
	}
	if len(body.Fees) == 0 || body.Fees[0].Amount != "-20.00" {
		t.Errorf("fees: got %+v, want first amount -20.00", body.Fees)
	}
	// Tickets only: the complimentary unit must be removed.
	if body.Action.Type != "remove_complimentary" {
		t.Errorf("action: got %q, want remove_complimentary", body.Action.Type)
	}
}

func TestEvaluate_MixedCart(t *testing.T) {
	resp := doPost(t, "/api/cart/evaluate", evaluateRequest{
		Items: []evaluateItem{
			{ProductID: "ticket-entry-2", Quantity: 3},
			{ProductID: "poster-a2", Quantity: 1},
		},
	}, seedAPIKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[evaluateResponse](t, resp)
	if body.FreeTickets != 0 {
		t.Errorf("freeTickets: got %d, want 0", body.FreeTickets)
	}
	if body.Action.Type != "cap_complimentary" || body.Action.TargetQuantity != 1 {
		t.Errorf("action: got %+v, want cap_complimentary target 1", body.Action)
	}
	// Poster at 25.00 earns floor(25/10) = 2 tickets.
	found := false
	for _, a := range body.Allocations {
		if a.ProductID == "poster-a2" {
			found = true
			if a.Tickets != 2 {
				t.Errorf("poster allocation: got %d, want 2", a.Tickets)
			}
		}
	}
	if !found {
		t.Error("no allocation for poster-a2")
	}
}

func TestEvaluate_SubmittedPriceWins(t *testing.T) {
	resp := doPost(t, "/api/cart/evaluate", evaluateRequest{
		Items: []evaluateItem{
			{ProductID: "ticket-entry-2", Quantity: 60, UnitPrice: "10.00"},
		},
	}, seedAPIKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[evaluateResponse](t, resp)
	if body.FreeTickets != 10 {
		t.Errorf("freeTickets: got %d, want 10", body.FreeTickets)
	}
	if body.DiscountAmount != "100.00" {
		t.Errorf("discountAmount: got %q, want 100.00", body.DiscountAmount)
	}
}

func TestEvaluate_InvalidQuantity(t *testing.T) {
	resp := doPost(t, "/api/cart/evaluate", evaluateRequest{
		Items: []evaluateItem{
			{ProductID: "ticket-entry-2", Quantity: 0},
		},
	}, seedAPIKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestEvaluate_RequiresAPIKey(t *testing.T) {
	resp := doPost(t, "/api/cart/evaluate", evaluateRequest{
		Items: []evaluateItem{
			{ProductID: "ticket-entry-2", Quantity: 1},
		},
	}, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestEvaluate_WrongAPIKey(t *testing.T) {
	resp := doPost(t, "/api/cart/evaluate", evaluateRequest{
		Items: []evaluateItem{
			{ProductID: "ticket-entry-2", Quantity: 1},
		},
	}, "not-the-key")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestBulkOffer(t *testing.T) {
	resp := doGet(t, "/api/offers/bulk?quantity=75")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[struct {
		TicketProductID string `json:"ticketProductId"`
		Quantity        int    `json:"quantity"`
		FreeTickets     int    `json:"freeTickets"`
	}](t, resp)

	if body.TicketProductID != "ticket-entry-2" {
		t.Errorf("ticketProductId: got %q", body.TicketProductID)
	}
	if body.FreeTickets != 25 {
		t.Errorf("freeTickets: got %d, want 25", body.FreeTickets)
	}
}

func TestAddTickets(t *testing.T) {
	resp := doPost(t, "/api/tickets/add", map[string]int{"quantity": 2}, seedAPIKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[map[string]any](t, resp)
	if body["productId"] != "ticket-entry-2" {
		t.Errorf("productId: got %v", body["productId"])
	}
}
