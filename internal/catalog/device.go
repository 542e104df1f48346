// Package catalog implements the device catalog: mapping raw marketplace
// rows into the strict Device shape and querying listings with filters,
// sorting, and pagination.
package catalog

// Grade is the displayed condition grade of a device.
type Grade string

// Condition grades.
const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
)

// ConditionLabel is the human-readable condition alongside the grade.
type ConditionLabel string

// Condition labels.
const (
	ConditionExcellent ConditionLabel = "Excellent"
	ConditionGood      ConditionLabel = "Good"
	ConditionFair      ConditionLabel = "Fair"
)

// CheckStatus is the outcome of a single inspection check.
type CheckStatus string

// Check statuses.
const (
	CheckOK   CheckStatus = "ok"
	CheckWarn CheckStatus = "warn"
	CheckBad  CheckStatus = "bad"
)

// ConditionCheck is one inspection line item on the detail page.
type ConditionCheck struct {
	Label  string      `json:"label"`
	Status CheckStatus `json:"status"`
}

// DeviceSpec is one labeled specification row.
type DeviceSpec struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Highlighted bool   `json:"highlighted,omitempty"`
}

// Seller is the device's seller as shown in the UI. Initials and avatar
// color are derived from the seller identity, never stored.
type Seller struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Initials     string  `json:"initials"`
	AvatarColor  string  `json:"avatarColor"`
	IsVerified   bool    `json:"isVerified"`
	MemberSince  string  `json:"memberSince"`
	Location     string  `json:"location"`
	Rating       float64 `json:"rating"`
	TotalSales   int     `json:"totalSales"`
	ResponseTime string  `json:"responseTime"`
}

// Review is a buyer review of a device.
type Review struct {
	ID               string  `json:"id"`
	ReviewerName     string  `json:"reviewerName"`
	ReviewerInitials string  `json:"reviewerInitials"`
	AvatarColor      string  `json:"avatarColor"`
	Rating           float64 `json:"rating"`
	Date             string  `json:"date"`
	Text             string  `json:"text"`
}

// Device is the strict internal shape of a listing. Every field is always
// present: missing backend data degrades to documented defaults during
// mapping, never to absent fields.
type Device struct {
	ID               string             `json:"id"`
	Brand            string             `json:"brand"`
	Model            string             `json:"model"`
	FullName         string             `json:"fullName"`
	Storage          string             `json:"storage"`
	Color            string             `json:"color"`
	Grade            Grade              `json:"grade"`
	ConditionLabel   ConditionLabel     `json:"conditionLabel"`
	Price            float64            `json:"price"`
	OriginalPrice    float64            `json:"originalPrice"`
	Images           []string           `json:"images"`
	IsVerified       bool               `json:"isVerified"`
	InspectedDate    string             `json:"inspectedDate"`
	BatteryHealth    int                `json:"batteryHealth"`
	ConditionChecks  []ConditionCheck   `json:"conditionChecks"`
	Specs            []DeviceSpec       `json:"specs"`
	Seller           Seller             `json:"seller"`
	Reviews          []Review           `json:"reviews"`
	TotalReviews     int                `json:"totalReviews"`
	AverageRating    float64            `json:"averageRating"`
	ShippingProvider string             `json:"shippingProvider"`
	ShippingDays     string             `json:"shippingDays"`
	IMEIStatus       string             `json:"imeiStatus"`
	ICloudStatus     string             `json:"iCloudStatus"`
	CarrierStatus    string             `json:"carrierStatus"`
	AvailableStorage []string           `json:"availableStorage"`
	StoragePrices    map[string]float64 `json:"storagePrices"`
	Category         string             `json:"category"`
}

// SortMode selects the listing sort order.
type SortMode string

// Sort modes. Unrecognized values fall back to SortNewest.
const (
	SortNewest    SortMode = "newest"
	SortPriceAsc  SortMode = "price_asc"
	SortPriceDesc SortMode = "price_desc"
	SortPopular   SortMode = "popular"
)

// ListingFilter describes one listing query. Category and Brand are
// human-readable slugs, resolved to internal ids at query time. A filter is
// built fresh per query and never mutated afterwards.
type ListingFilter struct {
	Category  string
	Brand     string
	Condition string
	MinPrice  float64
	MaxPrice  float64
	Search    string
	SortBy    SortMode
	Page      int // 1-based; values < 1 are clamped to 1
	PageSize  int // default 20
}
