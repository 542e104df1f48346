package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		condition string
		wantGrade Grade
		wantLabel ConditionLabel
	}{
		{"like_new", GradeAPlus, ConditionExcellent},
		{"excellent", GradeA, ConditionExcellent},
		{"good", GradeB, ConditionGood},
		{"fair", GradeC, ConditionFair},
		{"mint", GradeC, ConditionFair},
		{"", GradeC, ConditionFair},
	}

	for _, tt := range tests {
		t.Run("condition "+tt.condition, func(t *testing.T) {
			t.Parallel()

			grade, label := mapCondition(tt.condition)
			assert.Equal(t, tt.wantGrade, grade)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestToInitials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"Nguyen Van A", "NV"},
		{"madison", "M"},
		{"jo hn do e", "JH"},
		{"  padded   name ", "PN"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run("name "+tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, toInitials(tt.name))
		})
	}
}

func TestPickColor(t *testing.T) {
	t.Parallel()

	// Same seed, same color, every time.
	for range 10 {
		assert.Equal(t, pickColor("u1"), pickColor("u1"))
	}

	// Every seed lands inside the fixed palette.
	for _, seed := range []string{"", "x", "a", "user-42", "Z"} {
		assert.Contains(t, avatarPalette[:], pickColor(seed))
	}

	// Empty seed behaves like "x".
	assert.Equal(t, pickColor("x"), pickColor(""))
}

func TestMapProduct_DefensiveNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantPrice float64
	}{
		{"numeric price", `{"id":"p1","price":1299.5}`, 1299.5},
		{"string price", `{"id":"p1","price":"1299.5"}`, 1299.5},
		{"junk price", `{"id":"p1","price":"not a number"}`, 0},
		{"null price", `{"id":"p1","price":null}`, 0},
		{"missing price", `{"id":"p1"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var row productRow
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &row))
			assert.Equal(t, tt.wantPrice, mapProduct(row).Price)
		})
	}
}

func TestMapProduct_SpecsFiltering(t *testing.T) {
	t.Parallel()

	var row productRow
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "p1",
		"title": "iPhone 13 Pro",
		"storage_capacity": "128GB",
		"imei_status": "clean",
		"specs": {"ram": "6GB", "chip": "A15 Bionic"},
		"brand": {"id": "b1", "name": "Apple"}
	}`), &row))

	device := mapProduct(row)

	labels := make([]string, 0, len(device.Specs))
	for _, s := range device.Specs {
		labels = append(labels, s.Label)
	}
	// Placeholder entries (Display, Camera, Battery, OS) are dropped and the
	// survivors keep their fixed order.
	assert.Equal(t, []string{"Brand", "Storage", "RAM", "Processor", "IMEI Status"}, labels)

	imei := device.Specs[len(device.Specs)-1]
	assert.Equal(t, "✓ Clean — Not Blacklisted", imei.Value)
	assert.True(t, imei.Highlighted)
}

func TestMapProduct_IMEINotClean(t *testing.T) {
	t.Parallel()

	var row productRow
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","imei_status":"flagged"}`), &row))

	device := mapProduct(row)
	var imei DeviceSpec
	for _, s := range device.Specs {
		if s.Label == "IMEI Status" {
			imei = s
		}
	}
	assert.Equal(t, "⚠ Check required", imei.Value)
	assert.False(t, imei.Highlighted)
	assert.Equal(t, "flagged", device.IMEIStatus)
}

func TestMapProduct_MissingRelations(t *testing.T) {
	t.Parallel()

	var row productRow
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1"}`), &row))

	device := mapProduct(row)

	assert.Equal(t, "—", device.Brand)
	assert.Equal(t, "—", device.Category)
	assert.Equal(t, "—", device.Model)
	assert.Equal(t, "—", device.InspectedDate)
	assert.Equal(t, GradeC, device.Grade)
	assert.Equal(t, ConditionFair, device.ConditionLabel)

	// Seller falls back to documented defaults rather than zero values.
	assert.Equal(t, "Unknown Seller", device.Seller.Name)
	assert.Equal(t, "US", device.Seller.Initials)
	assert.Equal(t, "Vietnam", device.Seller.Location)
	assert.Equal(t, "Unknown", device.Seller.MemberSince)
	assert.Equal(t, pickColor("x"), device.Seller.AvatarColor)

	// Collections are always present, never nil.
	assert.NotNil(t, device.Images)
	assert.NotNil(t, device.Specs)
	assert.NotNil(t, device.ConditionChecks)
	assert.NotNil(t, device.Reviews)
	assert.NotNil(t, device.StoragePrices)
}

func TestMapProduct_SellerDerivedFields(t *testing.T) {
	t.Parallel()

	var row productRow
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "p1",
		"seller": {
			"id": "u1",
			"username": "minh88",
			"full_name": "Minh Tran",
			"seller_rating": 4.8,
			"total_sales": 57,
			"verified": "verified",
			"location": "Hanoi",
			"created_at": "2023-03-15T08:00:00Z"
		}
	}`), &row))

	seller := mapProduct(row).Seller
	assert.Equal(t, "Minh Tran", seller.Name)
	assert.Equal(t, "MT", seller.Initials)
	assert.Equal(t, pickColor("u1"), seller.AvatarColor)
	assert.True(t, seller.IsVerified)
	assert.Equal(t, "Mar 2023", seller.MemberSince)
	assert.Equal(t, "Hanoi", seller.Location)
	assert.Equal(t, 4.8, seller.Rating)
	assert.Equal(t, 57, seller.TotalSales)
}

func TestMapProduct_Idempotent(t *testing.T) {
	t.Parallel()

	var row productRow
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "p1",
		"title": "Galaxy S22",
		"condition": "excellent",
		"price": 550,
		"images": ["a.jpg", "b.jpg"],
		"created_at": "2024-06-01T12:00:00Z",
		"brand": {"id": "b1", "name": "Samsung"}
	}`), &row))

	first := mapProduct(row)
	second := mapProduct(row)
	assert.Equal(t, first, second)

	// The two values must be independent copies.
	second.Images[0] = "mutated.jpg"
	second.Specs[0].Value = "mutated"
	second.StoragePrices["—"] = 999
	assert.Equal(t, "a.jpg", first.Images[0])
	assert.NotEqual(t, "mutated", first.Specs[0].Value)
	assert.NotEqual(t, 999.0, first.StoragePrices["—"])
}

func TestMapReview(t *testing.T) {
	t.Parallel()

	var row reviewRow
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": "r1",
		"rating": 5,
		"comment": "Arrived exactly as described.",
		"created_at": "2024-05-20T09:30:00Z",
		"reviewer": {"id": "u2", "full_name": "Linh Pham"}
	}`), &row))

	review := mapReview(row)
	assert.Equal(t, "Linh Pham", review.ReviewerName)
	assert.Equal(t, "LP", review.ReviewerInitials)
	assert.Equal(t, pickColor("u2"), review.AvatarColor)
	assert.Equal(t, 5.0, review.Rating)
	assert.Equal(t, "May 20, 2024", review.Date)
}

func TestMapReview_NoReviewer(t *testing.T) {
	t.Parallel()

	var row reviewRow
	require.NoError(t, json.Unmarshal([]byte(`{"id":"r1","rating":3}`), &row))

	review := mapReview(row)
	assert.Equal(t, "Unknown Seller", review.ReviewerName)
	assert.Equal(t, pickColor(""), review.AvatarColor)
}
