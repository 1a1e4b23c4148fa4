package domain

import "strings"

// CommoditySpec describes one deliverable metals futures contract:
// the exchange symbol, the physical size of a single contract, and the
// factor that converts warehouse-report units into contract units
// (warehouse reports quote Copper in short tons and Aluminum in metric
// tons while the contracts are denominated in lbs).
type CommoditySpec struct {
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Unit          string  `json:"unit"`
	ContractSize  float64 `json:"contract_size"`
	WarehouseConv float64 `json:"warehouse_conv"`
}

// ContractUnits converts a warehouse-report quantity into contract units.
func (s CommoditySpec) ContractUnits(warehouseQty float64) float64 {
	return warehouseQty * s.WarehouseConv
}

var commoditySpecs = []CommoditySpec{
	{Name: "Gold", Symbol: "GC", Unit: "troy oz", ContractSize: 100, WarehouseConv: 1},
	{Name: "Silver", Symbol: "SI", Unit: "troy oz", ContractSize: 5000, WarehouseConv: 1},
	{Name: "Copper", Symbol: "HG", Unit: "lbs", ContractSize: 25000, WarehouseConv: 2000},
	{Name: "Platinum", Symbol: "PL", Unit: "troy oz", ContractSize: 50, WarehouseConv: 1},
	{Name: "Palladium", Symbol: "PA", Unit: "troy oz", ContractSize: 100, WarehouseConv: 1},
	{Name: "Aluminum", Symbol: "ALI", Unit: "lbs", ContractSize: 44000, WarehouseConv: 2204.62},
	{Name: "Micro Gold", Symbol: "MGC", Unit: "troy oz", ContractSize: 10, WarehouseConv: 1},
	{Name: "Micro Silver", Symbol: "MSI", Unit: "troy oz", ContractSize: 1000, WarehouseConv: 1},
}

// Commodities returns the registry of known deliverable contracts in a
// fixed order. The slice is a copy; callers may not mutate the registry.
func Commodities() []CommoditySpec {
	out := make([]CommoditySpec, len(commoditySpecs))
	copy(out, commoditySpecs)
	return out
}

// PrimaryCommodities returns the full-size contracts that participate in
// stress scoring (micro contracts shadow the main market and carry no
// independent physical signal).
func PrimaryCommodities() []CommoditySpec {
	var out []CommoditySpec
	for _, s := range commoditySpecs {
		if !strings.HasPrefix(s.Name, "Micro") {
			out = append(out, s)
		}
	}
	return out
}

// SpecFor looks up a commodity by its display name.
func SpecFor(name string) (CommoditySpec, bool) {
	for _, s := range commoditySpecs {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return CommoditySpec{}, false
}

// SpecForSymbol looks up a commodity by its futures symbol.
func SpecForSymbol(symbol string) (CommoditySpec, bool) {
	for _, s := range commoditySpecs {
		if s.Symbol == symbol {
			return s, true
		}
	}
	return CommoditySpec{}, false
}

// IdentifyCommodity maps a free-form report header (contract title,
// product line, workbook filename) to a commodity. Micro variants are
// checked first so "MICRO GOLD" does not resolve to Gold. Headers that
// match nothing return ok=false and are skipped by the parsers.
func IdentifyCommodity(header string) (CommoditySpec, bool) {
	upper := strings.ToUpper(header)
	switch {
	case strings.Contains(upper, "MICRO GOLD"):
		return SpecFor("Micro Gold")
	case strings.Contains(upper, "MICRO SILVER"):
		return SpecFor("Micro Silver")
	case strings.Contains(upper, "GOLD"):
		return SpecFor("Gold")
	case strings.Contains(upper, "SILVER"):
		return SpecFor("Silver")
	case strings.Contains(upper, "COPPER"):
		return SpecFor("Copper")
	case strings.Contains(upper, "PLATINUM"):
		return SpecFor("Platinum")
	case strings.Contains(upper, "PALLADIUM"):
		return SpecFor("Palladium")
	case strings.Contains(upper, "ALUMINUM"):
		return SpecFor("Aluminum")
	default:
		return CommoditySpec{}, false
	}
}
