package universe

import "testing"

func validCreateParams() CreateParams {
	return CreateParams{
		Name:          "Alpha Quadrant",
		SectorCount:   100,
		PortDensity:   0.3,
		PlanetDensity: 0.2,
		AIPlayerCount: 5,
	}
}

func TestValidateParams(t *testing.T) {
	params := validCreateParams()
	if err := validateParams(&params); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}
}

func TestValidateParamsTrimsName(t *testing.T) {
	params := validCreateParams()
	params.Name = "  Alpha  "
	if err := validateParams(&params); err != nil {
		t.Fatalf("validateParams: %v", err)
	}
	if params.Name != "Alpha" {
		t.Errorf("Name = %q, want trimmed", params.Name)
	}
}

func TestValidateParamsRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"empty name", func(p *CreateParams) { p.Name = "   " }},
		{"zero sectors", func(p *CreateParams) { p.SectorCount = 0 }},
		{"too many sectors", func(p *CreateParams) { p.SectorCount = 1001 }},
		{"negative port density", func(p *CreateParams) { p.PortDensity = -0.1 }},
		{"port density above one", func(p *CreateParams) { p.PortDensity = 1.5 }},
		{"planet density above one", func(p *CreateParams) { p.PlanetDensity = 2 }},
		{"negative ai count", func(p *CreateParams) { p.AIPlayerCount = -1 }},
		{"too many ai players", func(p *CreateParams) { p.AIPlayerCount = 101 }},
		{"negative turns per generation", func(p *CreateParams) { p.TurnsPerGeneration = -3 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validCreateParams()
			tt.mutate(&params)
			if err := validateParams(&params); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
