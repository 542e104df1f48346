package catalog

import (
	"encoding/json"
	"strconv"
)

// looseNumber decodes a JSON number, a numeric string, null, or anything
// else. Undecodable input becomes 0 rather than an error so a single bad
// column never sinks a whole row.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = looseNumber(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*n = looseNumber(f)
			return nil
		}
	}
	*n = 0
	return nil
}

// looseStrings decodes a JSON array keeping only its string elements.
// Null or non-array input becomes nil.
type looseStrings []string

func (l *looseStrings) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = nil
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}

// looseSpecs decodes the free-form specs JSON object keeping only string
// values. Null or non-object input becomes an empty map.
type looseSpecs map[string]string

func (l *looseSpecs) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = looseSpecs{}
		return nil
	}
	out := make(looseSpecs, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			out[k] = s
		}
	}
	*l = out
	return nil
}

// sellerRow is the expanded users relation on a product row.
type sellerRow struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	FullName     string      `json:"full_name"`
	AvatarURL    string      `json:"avatar_url"`
	SellerRating looseNumber `json:"seller_rating"`
	TotalSales   looseNumber `json:"total_sales"`
	Verified     string      `json:"verified"`
	Location     string      `json:"location"`
	CreatedAt    string      `json:"created_at"`
}

type brandRow struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	LogoURL string `json:"logo_url"`
}

type categoryRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type modelRow struct {
	ID        string `json:"id"`
	ModelName string `json:"model_name"`
}

// productRow is the raw listing row with its expanded relations. Relation
// pointers are nil when the join found nothing.
type productRow struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Condition       string       `json:"condition"`
	StorageCapacity string       `json:"storage_capacity"`
	Color           string       `json:"color"`
	Price           looseNumber  `json:"price"`
	OriginalPrice   looseNumber  `json:"original_price"`
	Images          looseStrings `json:"images"`
	IsVerified      bool         `json:"is_verified"`
	CreatedAt       string       `json:"created_at"`
	BatteryHealth   looseNumber  `json:"battery_health"`
	ViewCount       looseNumber  `json:"view_count"`
	IMEIStatus      string       `json:"imei_status"`
	ICloudStatus    string       `json:"icloud_status"`
	CarrierStatus   string       `json:"carrier_status"`
	CategoryID      string       `json:"category_id"`
	Specs           looseSpecs   `json:"specs"`

	Seller      *sellerRow   `json:"seller"`
	Brand       *brandRow    `json:"brand"`
	Category    *categoryRow `json:"category"`
	DeviceModel *modelRow    `json:"device_model"`
}

// reviewRow is a raw review row with its expanded reviewer relation.
type reviewRow struct {
	ID        string      `json:"id"`
	Rating    looseNumber `json:"rating"`
	Comment   string      `json:"comment"`
	CreatedAt string      `json:"created_at"`
	Reviewer  *sellerRow  `json:"reviewer"`
}
