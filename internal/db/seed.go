package db

import (
	"context"
	"database/sql"

	"github.com/servicesync-ai/servicesync/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }

// Seed loads a small reference data set: a handful of well-known fault
// codes with their typical causes and edge cases, plus sample engines and
// technicians. Safe to call on a database that already has data; existing
// rows short-circuit the load.
func Seed(ctx context.Context, conn *sql.DB) error {
	var count int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM fault_codes`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	faultCodes := &SQLiteFaultCodeStore{DB: conn}
	engines := &SQLiteEngineStore{DB: conn}
	technicians := &SQLiteTechnicianStore{DB: conn}

	type seedCause struct {
		cause       string
		probability float64
	}
	type seedEdge struct {
		scenario, likelyCause, aiValueAdd string
	}
	seeds := []struct {
		code   models.FaultCode
		causes []seedCause
		edges  []seedEdge
	}{
		{
			code: models.FaultCode{
				OEMCode:        int64Ptr(559),
				SPN:            int64Ptr(157),
				FMI:            int64Ptr(18),
				OBD2Code:       "P0087",
				Description:    "Fuel rail pressure low - data valid but below normal operating range",
				SystemCategory: "fuel",
				Complexity:     models.ComplexityMedium,
				CausesDerate:   true,
				AppliesTo:      "all",
			},
			causes: []seedCause{
				{"Restricted fuel filter", 0.40},
				{"Failing fuel lift pump", 0.25},
				{"Fuel pressure relief valve stuck open", 0.20},
				{"Air in fuel supply", 0.15},
			},
			edges: []seedEdge{
				{
					"Code appears only under heavy load at altitude",
					"Marginal lift pump masked at low demand",
					"Correlates load profile and service history instead of generic filter swap",
				},
			},
		},
		{
			code: models.FaultCode{
				OEMCode:        int64Ptr(1939),
				OBD2Code:       "P0420",
				Description:    "Catalyst system efficiency below threshold",
				SystemCategory: "aftertreatment",
				Complexity:     models.ComplexityMedium,
				AppliesTo:      "all",
			},
			causes: []seedCause{
				{"Degraded catalytic converter", 0.50},
				{"Downstream O2 sensor drift", 0.30},
				{"Exhaust leak upstream of sensor", 0.20},
			},
			edges: []seedEdge{
				{
					"Converter replaced recently and code returned",
					"Upstream cause (misfire, oil consumption) damaging the new converter",
					"Flags repeat-repair pattern from history before another converter is sold",
				},
			},
		},
		{
			code: models.FaultCode{
				OEMCode:        int64Ptr(111),
				SPN:            int64Ptr(629),
				FMI:            int64Ptr(12),
				PIDSID:         "SID 254",
				Description:    "ECM internal failure",
				SystemCategory: "electrical",
				Complexity:     models.ComplexityHigh,
				SafetyCritical: true,
				AppliesTo:      "all",
			},
			causes: []seedCause{
				{"ECM hardware fault", 0.60},
				{"Corrupt calibration", 0.25},
				{"Wiring/power supply issue to ECM", 0.15},
			},
		},
		{
			code: models.FaultCode{
				OEMCode:        int64Ptr(2377),
				SPN:            int64Ptr(641),
				FMI:            int64Ptr(7),
				Description:    "VGT actuator not responding to command",
				SystemCategory: "air handling",
				Complexity:     models.ComplexityLow,
				AppliesTo:      "ISX, X15",
			},
			causes: []seedCause{
				{"Sticking VGT actuator", 0.55},
				{"Actuator calibration required", 0.45},
			},
		},
	}

	for _, s := range seeds {
		id, err := faultCodes.Insert(ctx, s.code)
		if err != nil {
			return err
		}
		for _, c := range s.causes {
			if err := faultCodes.AddTypicalCause(ctx, id, c.cause, c.probability); err != nil {
				return err
			}
		}
		for _, e := range s.edges {
			if err := faultCodes.AddEdgeCase(ctx, id, e.scenario, e.likelyCause, e.aiValueAdd); err != nil {
				return err
			}
		}
	}

	for _, e := range []models.Engine{
		{EngineSerial: "ENG-X15-001", EngineModel: "X15", ECMType: "CM2350", VehicleType: "tractor", Year: 2021, Mileage: 150000},
		{EngineSerial: "ENG-X15-002", EngineModel: "X15", ECMType: "CM2350", VehicleType: "tractor", Year: 2022, Mileage: 89000},
	} {
		if _, err := engines.Insert(ctx, e); err != nil {
			return err
		}
	}

	for _, t := range []models.Technician{
		{TechID: "TECH-001", Name: "Sam Delgado", SkillLevel: models.SkillSenior, Email: "sam.delgado@example.com"},
		{TechID: "TECH-002", Name: "Riley Okafor", SkillLevel: models.SkillIntermediate},
		{TechID: "TECH-003", Name: "Jordan Mills", SkillLevel: models.SkillJunior},
	} {
		if _, err := technicians.Insert(ctx, t); err != nil {
			return err
		}
	}

	return nil
}
