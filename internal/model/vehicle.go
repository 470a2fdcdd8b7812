package model

type WeightCategory string

// CategorySuspended is the zero-tax category for vehicles expected to stay
// under the mileage use limit.
const CategorySuspended WeightCategory = "W"

// WeightCategories lists the 23 taxable gross weight codes in form order.
var WeightCategories = []WeightCategory{
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L",
	"M", "N", "O", "P", "Q", "R", "S", "T", "U", "V", "W",
}

func (c WeightCategory) Valid() bool {
	for _, known := range WeightCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Vehicle is one fleet entry as submitted. Immutable once accepted.
type Vehicle struct {
	VIN            string
	Category       WeightCategory
	FirstUsedMonth string // YYYYMM, e.g. "202508"
	Logging        bool
	Suspended      bool
	Agricultural   bool
	LowMileage     bool
}

// Taxable reports whether the vehicle contributes tax at all. Suspended and
// agricultural vehicles contribute an explicit zero.
func (v Vehicle) Taxable() bool {
	return !v.Suspended && !v.Agricultural
}

// Business carries the identity fields printed on every generated return.
type Business struct {
	Name        string
	AddressLine string
	City        string
	State       string
	Zip         string
	EIN         string
	Phone       string
}

// MonthGroup is the slice of a fleet sharing one first-used month. Each
// group becomes exactly one filing.
type MonthGroup struct {
	Month    string // YYYYMM
	Business Business
	Vehicles []Vehicle
}

func (g MonthGroup) AnyAgricultural() bool {
	for _, v := range g.Vehicles {
		if v.Agricultural {
			return true
		}
	}
	return false
}

func (g MonthGroup) AnyLowMileage() bool {
	for _, v := range g.Vehicles {
		if v.LowMileage {
			return true
		}
	}
	return false
}

func (g MonthGroup) AnySuspended() bool {
	for _, v := range g.Vehicles {
		if v.Suspended {
			return true
		}
	}
	return false
}
