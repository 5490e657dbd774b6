package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"loyalty-backend/models"
)

func TestCreateLinkEndpoint(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)

	customer, _ := seedTestUser(db, "linkcustomer@test.com", "customer")
	_, vendorToken := seedTestUser(db, "linkvendor@test.com", "vendor")
	provider := seedTestProvider(db, "link-ep", 1, 0, 1, 0, true)

	body := map[string]interface{}{
		"vendor_email": "shopper@vendor.com",
		"provider":     provider.Slug,
		"user_id":      customer.ID.String(),
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/v1/vendor/links", body, vendorToken))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	link, ok := resp["link"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected link object, got %v", resp)
	}
	if link["vendor_email"] != "shopper@vendor.com" {
		t.Errorf("expected vendor_email shopper@vendor.com, got %v", link["vendor_email"])
	}
}

func TestCreateLinkConflictEndpoint(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)

	first, _ := seedTestUser(db, "linkfirst@test.com", "customer")
	second, _ := seedTestUser(db, "linksecond@test.com", "customer")
	_, vendorToken := seedTestUser(db, "linkconflictvendor@test.com", "vendor")
	provider := seedTestProvider(db, "linkconflict-ep", 1, 0, 1, 0, true)

	body := map[string]interface{}{
		"vendor_email": "taken@vendor.com",
		"provider":     provider.Slug,
		"user_id":      first.ID.String(),
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/v1/vendor/links", body, vendorToken))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	// Same vendor email, same provider, different user.
	body["user_id"] = second.ID.String()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/v1/vendor/links", body, vendorToken))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListLinksEndpoint(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)

	customer, _ := seedTestUser(db, "listlinks@test.com", "customer")
	_, vendorToken := seedTestUser(db, "listlinksvendor@test.com", "vendor")
	active := seedTestProvider(db, "listlinks-active", 1, 0, 1, 0, true)
	inactive := seedTestProvider(db, "listlinks-inactive", 1, 0, 1, 0, false)

	db.Create(&models.VendorUserLink{UserID: customer.ID, ProviderID: active.ID, VendorEmail: "list@vendor.com"})
	db.Create(&models.VendorUserLink{UserID: customer.ID, ProviderID: inactive.ID, VendorEmail: "list@vendor.com"})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/v1/vendor/links?vendor_email=list@vendor.com", nil, vendorToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	links, ok := resp["links"].([]interface{})
	if !ok || len(links) != 1 {
		t.Fatalf("expected 1 active link, got %v", resp["links"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/v1/vendor/links?vendor_email=list@vendor.com&active_only=false", nil, vendorToken))
	resp = parseResponse(w)
	links, _ = resp["links"].([]interface{})
	if len(links) != 2 {
		t.Errorf("expected 2 links with active_only=false, got %d", len(links))
	}
}

func TestVendorExchangeEndpoint(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)

	sender, _ := seedTestUser(db, "vexsender@test.com", "customer")
	receiver, _ := seedTestUser(db, "vexreceiver@test.com", "customer")
	_, vendorToken := seedTestUser(db, "vexvendor@test.com", "vendor")

	// 100 points at 1:1 value, 1.5% + 3.5% + 5% app fee leaves 90 value.
	from := seedTestProvider(db, "vex-from", 1.0, 1.5, 1, 0, true)
	to := seedTestProvider(db, "vex-to", 1.0, 3.5, 1, 0, true)
	seedTestBalance(db, sender.ID, from.ID, 500)

	db.Create(&models.VendorUserLink{UserID: sender.ID, ProviderID: from.ID, VendorEmail: "member@vendor.com"})
	db.Create(&models.VendorUserLink{UserID: receiver.ID, ProviderID: to.ID, VendorEmail: "member@vendor.com"})

	body := map[string]interface{}{
		"vendor_email":  "member@vendor.com",
		"from_provider": "vex-from",
		"to_provider":   "vex-to",
		"points":        100,
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/v1/vendor/exchange", body, vendorToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if gross, _ := resp["gross_value"].(float64); gross != 100 {
		t.Errorf("expected gross_value 100, got %v", resp["gross_value"])
	}
	if totalFee, _ := resp["total_fee_value"].(float64); totalFee != 10 {
		t.Errorf("expected total_fee_value 10, got %v", resp["total_fee_value"])
	}
	if recv, _ := resp["points_received"].(float64); int(recv) != 90 {
		t.Errorf("expected points_received 90, got %v", resp["points_received"])
	}

	var fromBalance, toBalance models.ProviderBalance
	db.Where("user_id = ? AND provider_id = ?", sender.ID, from.ID).First(&fromBalance)
	db.Where("user_id = ? AND provider_id = ?", receiver.ID, to.ID).First(&toBalance)
	if fromBalance.Balance != 400 {
		t.Errorf("expected sender balance 400, got %d", fromBalance.Balance)
	}
	if toBalance.Balance != 90 {
		t.Errorf("expected receiver balance 90, got %d", toBalance.Balance)
	}
}

func TestVendorExchangeNoLinkEndpoint(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)

	sender, _ := seedTestUser(db, "vexnolink@test.com", "customer")
	_, vendorToken := seedTestUser(db, "vexnolinkvendor@test.com", "vendor")

	from := seedTestProvider(db, "vexnolink-from", 1, 0, 1, 0, true)
	seedTestProvider(db, "vexnolink-to", 1, 0, 1, 0, true)
	seedTestBalance(db, sender.ID, from.ID, 500)

	// Only the source side is linked.
	db.Create(&models.VendorUserLink{UserID: sender.ID, ProviderID: from.ID, VendorEmail: "half@vendor.com"})

	body := map[string]interface{}{
		"vendor_email":  "half@vendor.com",
		"from_provider": "vexnolink-from",
		"to_provider":   "vexnolink-to",
		"points":        100,
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/v1/vendor/exchange", body, vendorToken))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestVendorExchangePreviewEndpoint(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)

	sender, _ := seedTestUser(db, "vexpreview@test.com", "customer")
	receiver, _ := seedTestUser(db, "vexpreviewrecv@test.com", "customer")
	_, vendorToken := seedTestUser(db, "vexpreviewvendor@test.com", "vendor")

	from := seedTestProvider(db, "vexpreview-from", 1.0, 1.5, 1, 0, true)
	to := seedTestProvider(db, "vexpreview-to", 1.0, 3.5, 1, 0, true)
	seedTestBalance(db, sender.ID, from.ID, 500)

	db.Create(&models.VendorUserLink{UserID: sender.ID, ProviderID: from.ID, VendorEmail: "quote@vendor.com"})
	db.Create(&models.VendorUserLink{UserID: receiver.ID, ProviderID: to.ID, VendorEmail: "quote@vendor.com"})

	body := map[string]interface{}{
		"vendor_email":  "quote@vendor.com",
		"from_provider": "vexpreview-from",
		"to_provider":   "vexpreview-to",
		"points":        100,
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/v1/vendor/exchange/preview", body, vendorToken))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	preview, ok := resp["preview"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected preview object, got %v", resp)
	}
	if recv, _ := preview["points_received"].(float64); int(recv) != 90 {
		t.Errorf("expected points_received 90, got %v", preview["points_received"])
	}

	var fromBalance models.ProviderBalance
	db.Where("user_id = ? AND provider_id = ?", sender.ID, from.ID).First(&fromBalance)
	if fromBalance.Balance != 500 {
		t.Errorf("expected sender balance unchanged at 500, got %d", fromBalance.Balance)
	}
}

func TestVendorEndpointsRequireVendorRole(t *testing.T) {
	db := freshDB()
	router := setupRouter(db)

	_, customerToken := seedTestUser(db, "vexrole@test.com", "customer")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/v1/vendor/links?vendor_email=x@y.com", nil, customerToken))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}
