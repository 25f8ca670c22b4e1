package classify

import "github.com/Farhaan96/CollisionOS-sub012/internal/model"

// categoryRule maps description/operation keywords to a part category.
// Rules are evaluated in order and the first match wins, so more specific
// categories come before broader ones.
type categoryRule struct {
	Category model.PartCategory
	Keywords []string
}

// defaultCategoryRules is the ordered keyword table used to derive a part's
// category. Glass precedes body because windshield lines often also mention
// panels; paint precedes body for the same reason.
func defaultCategoryRules() []categoryRule {
	return []categoryRule{
		{
			Category: model.CategoryGlass,
			Keywords: []string{"GLASS", "WINDSHIELD", "WINDOW", "BACKLITE", "QUARTER GLASS", "MIRROR GLASS"},
		},
		{
			Category: model.CategoryPaint,
			Keywords: []string{"PAINT", "REFINISH", "CLEAR COAT", "CLEARCOAT", "BLEND", "PRIMER", "TINT"},
		},
		{
			Category: model.CategoryElectrical,
			Keywords: []string{"WIRING", "HARNESS", "SENSOR", "CAMERA", "RADAR", "LAMP", "HEADLAMP", "TAIL LAMP", "BATTERY", "MODULE", "SWITCH"},
		},
		{
			Category: model.CategoryMechanical,
			Keywords: []string{"RADIATOR", "CONDENSER", "COMPRESSOR", "SUSPENSION", "STRUT", "CONTROL ARM", "AXLE", "BRAKE", "ENGINE", "TRANSMISSION", "COOLING", "EXHAUST", "ALIGNMENT"},
		},
		{
			Category: model.CategoryBody,
			Keywords: []string{"BUMPER", "FENDER", "HOOD", "DOOR", "PANEL", "GRILLE", "TRUNK", "LIFTGATE", "TAILGATE", "ROCKER", "PILLAR", "BRACKET", "ABSORBER", "MOLDING", "EMBLEM", "SPOILER", "SKID PLATE"},
		},
	}
}

// typeKeywords maps source flags found in the part number, operation type,
// or description to a sourcing tier. Checked in order; default is aftermarket.
var typeKeywords = []struct {
	Type     model.PartType
	Keywords []string
}{
	{model.TypeRecycled, []string{"RECYCLED", "RECY", "SALVAGE"}},
	{model.TypeUsed, []string{"USED", "LKQ"}},
	{model.TypeOEM, []string{"OEM", "OE ", "GENUINE", "FACTORY"}},
}
