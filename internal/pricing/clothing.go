package pricing

import (
	"strings"

	"github.com/Simplici0/fabrica/internal/catalog"
)

// ClothingType is a garment category with known fabric suitability.
type ClothingType int

const (
	// ClothingTypeOther covers any label outside the known categories.
	ClothingTypeOther ClothingType = iota
	TShirtTop
	PatternedShirt
	PantsJeans
	LongPantsTrousers
	JacketBlazer
	DressTunic
	LongDressGown
	SkirtShorts
	SweaterHoodie
	Footwear
)

var clothingTypeLabels = [...]string{
	ClothingTypeOther: "",
	TShirtTop:         "T-Shirt/Top",
	PatternedShirt:    "Patterned Shirt",
	PantsJeans:        "Pants/Jeans",
	LongPantsTrousers: "Long Pants/Trousers",
	JacketBlazer:      "Jacket/Blazer",
	DressTunic:        "Dress/Tunic",
	LongDressGown:     "Long Dress/Gown",
	SkirtShorts:       "Skirt/Shorts",
	SweaterHoodie:     "Sweater/Hoodie",
	Footwear:          "Footwear",
}

// KnownClothingTypes lists every category except ClothingTypeOther.
func KnownClothingTypes() []ClothingType {
	types := make([]ClothingType, 0, len(clothingTypeLabels)-1)
	for t := TShirtTop; t <= Footwear; t++ {
		types = append(types, t)
	}
	return types
}

// ParseClothingType matches a label case-insensitively. Unknown labels map
// to ClothingTypeOther.
func ParseClothingType(label string) ClothingType {
	label = strings.TrimSpace(label)
	for t := TShirtTop; t <= Footwear; t++ {
		if strings.EqualFold(clothingTypeLabels[t], label) {
			return t
		}
	}
	return ClothingTypeOther
}

func (t ClothingType) String() string {
	if t < 0 || int(t) >= len(clothingTypeLabels) {
		return ""
	}
	return clothingTypeLabels[t]
}

// CanonicalLabel returns the known label for clothingType, or the trimmed
// input when the type is not one of the known categories.
func CanonicalLabel(clothingType string) string {
	if t := ParseClothingType(clothingType); t != ClothingTypeOther {
		return t.String()
	}
	return strings.TrimSpace(clothingType)
}

// SuitableFabricTypes returns the fabric types acceptable for t.
func (t ClothingType) SuitableFabricTypes() []catalog.FabricType {
	switch t {
	case TShirtTop:
		return []catalog.FabricType{catalog.Cotton, catalog.Jersey, catalog.Bamboo, catalog.Modal}
	case PatternedShirt:
		return []catalog.FabricType{catalog.Cotton, catalog.Linen, catalog.Silk, catalog.Rayon}
	case PantsJeans:
		return []catalog.FabricType{catalog.Denim, catalog.Twill, catalog.Cotton, catalog.Canvas}
	case LongPantsTrousers, JacketBlazer:
		return []catalog.FabricType{catalog.Wool, catalog.Cotton, catalog.Linen, catalog.Twill}
	case DressTunic:
		return []catalog.FabricType{catalog.Silk, catalog.Cotton, catalog.Rayon, catalog.Chiffon, catalog.Crepe}
	case LongDressGown:
		return []catalog.FabricType{catalog.Silk, catalog.Chiffon, catalog.Satin, catalog.Crepe, catalog.Velvet}
	case SkirtShorts:
		return []catalog.FabricType{catalog.Cotton, catalog.Linen, catalog.Denim, catalog.Twill}
	case SweaterHoodie:
		return []catalog.FabricType{catalog.Cotton, catalog.Wool, catalog.Fleece, catalog.Jersey}
	case Footwear:
		return []catalog.FabricType{catalog.Leather, catalog.Canvas, catalog.Cotton}
	case ClothingTypeOther:
		return []catalog.FabricType{catalog.Cotton, catalog.Polyester}
	}
	return []catalog.FabricType{catalog.Cotton, catalog.Polyester}
}

const defaultAffinity = 0.5

// TypeAffinity rates how well a fabric type suits t, in [0,1].
func (t ClothingType) TypeAffinity(fabricType catalog.FabricType) float64 {
	var table map[catalog.FabricType]float64
	switch t {
	case TShirtTop:
		table = map[catalog.FabricType]float64{catalog.Cotton: 0.9, catalog.Jersey: 0.95, catalog.Bamboo: 0.85}
	case PantsJeans:
		table = map[catalog.FabricType]float64{catalog.Denim: 0.95, catalog.Twill: 0.8, catalog.Cotton: 0.7}
	case JacketBlazer:
		table = map[catalog.FabricType]float64{catalog.Wool: 0.95, catalog.Cotton: 0.8, catalog.Linen: 0.75}
	case DressTunic:
		table = map[catalog.FabricType]float64{catalog.Silk: 0.9, catalog.Cotton: 0.8, catalog.Rayon: 0.85}
	case ClothingTypeOther, PatternedShirt, LongPantsTrousers, LongDressGown, SkirtShorts, SweaterHoodie, Footwear:
		return defaultAffinity
	}
	if v, ok := table[fabricType]; ok {
		return v
	}
	return defaultAffinity
}
