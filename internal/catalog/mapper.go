package catalog

import (
	"strings"
	"time"
	"unicode"
)

// placeholder marks a value the backend did not supply. Spec entries that
// resolve to it are dropped from the output list.
const placeholder = "—"

const unknownSeller = "Unknown Seller"

// avatarPalette is the fixed set of avatar gradient colors. Assignment is a
// pure function of the identity seed, so the same seller always renders the
// same gradient.
var avatarPalette = [...]string{
	"from-teal-500 to-emerald-500",
	"from-violet-500 to-purple-500",
	"from-orange-500 to-red-500",
	"from-blue-500 to-cyan-500",
	"from-pink-500 to-rose-500",
}

// mapCondition translates a raw condition code into its matched grade and
// label pair. Unrecognized codes fall back to (C, Fair).
func mapCondition(condition string) (Grade, ConditionLabel) {
	switch condition {
	case "like_new":
		return GradeAPlus, ConditionExcellent
	case "excellent":
		return GradeA, ConditionExcellent
	case "good":
		return GradeB, ConditionGood
	case "fair":
		return GradeC, ConditionFair
	default:
		return GradeC, ConditionFair
	}
}

// toInitials returns the uppercased first letter of each name token,
// truncated to two characters.
func toInitials(name string) string {
	var b strings.Builder
	for _, token := range strings.Fields(name) {
		for _, r := range token {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
		if b.Len() >= 2 {
			break
		}
	}
	s := b.String()
	if len([]rune(s)) > 2 {
		s = string([]rune(s)[:2])
	}
	return s
}

// pickColor deterministically assigns a palette entry from an identity seed.
// An empty seed behaves like the seed "x".
func pickColor(seed string) string {
	if seed == "" {
		seed = "x"
	}
	return avatarPalette[int(seed[0])%len(avatarPalette)]
}

func formatMonthYear(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return "Unknown"
	}
	return t.Format("Jan 2006")
}

func formatDate(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return placeholder
	}
	return t.Format("Jan 2, 2006")
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func mapSeller(row *sellerRow) Seller {
	if row == nil {
		row = &sellerRow{}
	}
	name := row.FullName
	if name == "" {
		name = row.Username
	}
	if name == "" {
		name = unknownSeller
	}
	location := row.Location
	if location == "" {
		location = "Vietnam"
	}
	memberSince := "Unknown"
	if row.CreatedAt != "" {
		memberSince = formatMonthYear(row.CreatedAt)
	}
	return Seller{
		ID:           row.ID,
		Name:         name,
		Initials:     toInitials(name),
		AvatarColor:  pickColor(row.ID),
		IsVerified:   row.Verified == "verified",
		MemberSince:  memberSince,
		Location:     location,
		Rating:       float64(row.SellerRating),
		TotalSales:   int(row.TotalSales),
		ResponseTime: "< 2hrs",
	}
}

func buildSpecs(row productRow, storage string) []DeviceSpec {
	brandName := placeholder
	if row.Brand != nil && row.Brand.Name != "" {
		brandName = row.Brand.Name
	}

	processor := row.Specs["chip"]
	if processor == "" {
		processor = row.Specs["cpu"]
	}

	imeiValue := "⚠ Check required"
	imeiClean := row.IMEIStatus == "clean"
	if imeiClean {
		imeiValue = "✓ Clean — Not Blacklisted"
	}

	candidates := []DeviceSpec{
		{Label: "Brand", Value: brandName},
		{Label: "Storage", Value: storage, Highlighted: true},
		{Label: "RAM", Value: orPlaceholder(row.Specs["ram"])},
		{Label: "Display", Value: orPlaceholder(row.Specs["display"])},
		{Label: "Processor", Value: orPlaceholder(processor)},
		{Label: "Camera", Value: orPlaceholder(row.Specs["camera"])},
		{Label: "Battery", Value: orPlaceholder(row.Specs["battery"])},
		{Label: "OS", Value: orPlaceholder(row.Specs["os"])},
		{Label: "IMEI Status", Value: imeiValue, Highlighted: imeiClean},
	}

	specs := make([]DeviceSpec, 0, len(candidates))
	for _, c := range candidates {
		if c.Value == placeholder {
			continue
		}
		specs = append(specs, c)
	}
	return specs
}

func lockStatus(raw, locked, fallback string) string {
	if raw == locked {
		return locked
	}
	return fallback
}

// mapProduct converts one raw listing row into the strict Device shape.
// It is total: missing or malformed columns degrade to documented defaults
// and the output holds no references back into the row.
func mapProduct(row productRow) Device {
	grade, conditionLabel := mapCondition(row.Condition)

	storage := row.StorageCapacity
	if storage == "" {
		storage = row.Specs["storage"]
	}
	storage = orPlaceholder(storage)

	model := placeholder
	switch {
	case row.DeviceModel != nil && row.DeviceModel.ModelName != "":
		model = row.DeviceModel.ModelName
	case row.Title != "":
		model = row.Title
	}

	brandName := placeholder
	if row.Brand != nil && row.Brand.Name != "" {
		brandName = row.Brand.Name
	}
	categoryName := placeholder
	if row.Category != nil && row.Category.Name != "" {
		categoryName = row.Category.Name
	}

	images := make([]string, len(row.Images))
	copy(images, row.Images)

	inspected := placeholder
	if row.CreatedAt != "" {
		inspected = formatDate(row.CreatedAt)
	}

	return Device{
		ID:               row.ID,
		Brand:            brandName,
		Model:            model,
		FullName:         orPlaceholder(row.Title),
		Storage:          storage,
		Color:            orPlaceholder(row.Color),
		Grade:            grade,
		ConditionLabel:   conditionLabel,
		Price:            float64(row.Price),
		OriginalPrice:    float64(row.OriginalPrice),
		Images:           images,
		IsVerified:       row.IsVerified,
		InspectedDate:    inspected,
		BatteryHealth:    int(row.BatteryHealth),
		ConditionChecks:  []ConditionCheck{},
		Specs:            buildSpecs(row, storage),
		Seller:           mapSeller(row.Seller),
		Reviews:          []Review{},
		TotalReviews:     0,
		AverageRating:    0,
		ShippingProvider: "J&T Express",
		ShippingDays:     "2–4 days",
		IMEIStatus:       lockStatus(row.IMEIStatus, "flagged", "clean"),
		ICloudStatus:     lockStatus(row.ICloudStatus, "locked", "unlocked"),
		CarrierStatus:    lockStatus(row.CarrierStatus, "locked", "unlocked"),
		AvailableStorage: []string{storage},
		StoragePrices:    map[string]float64{storage: float64(row.Price)},
		Category:         categoryName,
	}
}

// mapReview converts one raw review row, deriving the reviewer's initials
// and avatar color the same way seller identity is derived.
func mapReview(row reviewRow) Review {
	name := unknownSeller
	reviewerID := ""
	if row.Reviewer != nil {
		reviewerID = row.Reviewer.ID
		if row.Reviewer.FullName != "" {
			name = row.Reviewer.FullName
		} else if row.Reviewer.Username != "" {
			name = row.Reviewer.Username
		}
	}
	date := placeholder
	if row.CreatedAt != "" {
		date = formatDate(row.CreatedAt)
	}
	return Review{
		ID:               row.ID,
		ReviewerName:     name,
		ReviewerInitials: toInitials(name),
		AvatarColor:      pickColor(reviewerID),
		Rating:           float64(row.Rating),
		Date:             date,
		Text:             row.Comment,
	}
}
