package model

// MacroTotals holds the four tracked nutrient values. All fields are kept
// rounded to two decimals by the totals maintainer.
type MacroTotals struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carb    float64 `json:"carb"`
}

// Entry is one logged food entry inside a meal. ID is a server-assigned
// positive integer, or a negative temp ID while the entry is pending sync.
type Entry struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	QuantityG   float64 `json:"quantity_g"`
	Kcal        float64 `json:"kcal"`
	Protein     float64 `json:"protein"`
	Carb        float64 `json:"carb"`
	Fat         float64 `json:"fat"`
	SortOrder   int     `json:"sort_order"`
	FdcID       int64   `json:"fdc_id,omitempty"`
	UnitName    string  `json:"unit_name,omitempty"`
}

// Meal groups entries under a named slot within a day.
type Meal struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Date      string      `json:"date"`
	SortOrder int         `json:"sort_order"`
	Entries   []Entry     `json:"entries"`
	Subtotal  MacroTotals `json:"subtotal"`
}

// DayFull is the complete snapshot of one day. Totals always equals the
// element-wise sum of the meal subtotals.
type DayFull struct {
	Date   string      `json:"date"`
	Meals  []Meal      `json:"meals"`
	Totals MacroTotals `json:"totals"`
}

// SimpleFood is a row in the personal food list or a search result.
type SimpleFood struct {
	FdcID        int64   `json:"fdcId"`
	Description  string  `json:"description"`
	BrandOwner   string  `json:"brandOwner,omitempty"`
	DataType     string  `json:"dataType,omitempty"`
	DefaultGrams float64 `json:"defaultGrams,omitempty"`
	UnitName     string  `json:"unit_name,omitempty"`
}

// Food carries the nutrition profile needed to compute entry macros.
// Foods are defined either per 100 g or per discrete unit (UnitName set).
type Food struct {
	FdcID          int64   `json:"fdcId"`
	Description    string  `json:"description"`
	BrandOwner     string  `json:"brand_owner,omitempty"`
	KcalPer100g    float64 `json:"kcal_per_100g,omitempty"`
	ProteinPer100g float64 `json:"protein_g_per_100g,omitempty"`
	CarbPer100g    float64 `json:"carb_g_per_100g,omitempty"`
	FatPer100g     float64 `json:"fat_g_per_100g,omitempty"`
	UnitName       string  `json:"unit_name,omitempty"`
	KcalPerUnit    float64 `json:"kcal_per_unit,omitempty"`
	ProteinPerUnit float64 `json:"protein_g_per_unit,omitempty"`
	CarbPerUnit    float64 `json:"carb_g_per_unit,omitempty"`
	FatPerUnit     float64 `json:"fat_g_per_unit,omitempty"`
}

// MealPatch is a partial update to a meal's name or position.
type MealPatch struct {
	Name      *string `json:"name,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// Preset is a saved meal template.
type Preset struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ItemCount int    `json:"item_count"`
}

// HistoryDay is one row of the macro history report.
type HistoryDay struct {
	Date    string   `json:"date"`
	Kcal    float64  `json:"kcal"`
	Protein float64  `json:"protein"`
	Fat     float64  `json:"fat"`
	Carb    float64  `json:"carb"`
	Weight  *float64 `json:"weight,omitempty"`
	Water   *float64 `json:"water,omitempty"`
}
