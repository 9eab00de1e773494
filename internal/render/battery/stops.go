package battery

import "github.com/rook-computer/vtdash/internal/render/canvas"

// Vertical shading tables, top (0) to bottom (1).
var (
	redStops = canvas.Stops{
		{0.00, canvas.RGB{160, 0, 0}}, {0.02, canvas.RGB{150, 0, 0}}, {0.04, canvas.RGB{179, 0, 0}},
		{0.12, canvas.RGB{221, 0, 0}}, {0.16, canvas.RGB{239, 0, 0}}, {0.21, canvas.RGB{251, 0, 0}},
		{0.31, canvas.RGB{239, 0, 0}}, {0.39, canvas.RGB{197, 0, 0}}, {0.44, canvas.RGB{168, 0, 0}},
		{0.47, canvas.RGB{154, 0, 0}}, {0.51, canvas.RGB{149, 0, 0}}, {0.57, canvas.RGB{154, 0, 0}},
		{0.68, canvas.RGB{175, 0, 0}}, {0.74, canvas.RGB{180, 0, 0}}, {0.80, canvas.RGB{176, 0, 0}},
		{0.86, canvas.RGB{165, 0, 0}}, {0.92, canvas.RGB{147, 0, 0}}, {0.97, canvas.RGB{120, 0, 0}},
		{1.00, canvas.RGB{106, 0, 0}},
	}
	yellowStops = canvas.Stops{
		{0.00, canvas.RGB{255, 160, 0}}, {0.02, canvas.RGB{255, 150, 0}}, {0.04, canvas.RGB{255, 179, 0}},
		{0.12, canvas.RGB{255, 221, 0}}, {0.16, canvas.RGB{255, 239, 0}}, {0.21, canvas.RGB{255, 251, 0}},
		{0.31, canvas.RGB{255, 239, 0}}, {0.39, canvas.RGB{255, 197, 0}}, {0.44, canvas.RGB{255, 168, 0}},
		{0.47, canvas.RGB{255, 154, 0}}, {0.51, canvas.RGB{255, 149, 0}}, {0.57, canvas.RGB{255, 154, 0}},
		{0.68, canvas.RGB{255, 175, 0}}, {0.74, canvas.RGB{255, 180, 0}}, {0.80, canvas.RGB{255, 176, 0}},
		{0.86, canvas.RGB{255, 165, 0}}, {0.92, canvas.RGB{255, 147, 0}}, {0.97, canvas.RGB{255, 120, 0}},
		{1.00, canvas.RGB{255, 106, 0}},
	}
	greenStops = canvas.Stops{
		{0.00, canvas.RGB{0, 160, 0}}, {0.02, canvas.RGB{0, 150, 0}}, {0.04, canvas.RGB{0, 179, 0}},
		{0.12, canvas.RGB{0, 221, 0}}, {0.16, canvas.RGB{0, 239, 0}}, {0.21, canvas.RGB{0, 251, 0}},
		{0.31, canvas.RGB{0, 239, 0}}, {0.39, canvas.RGB{0, 197, 0}}, {0.44, canvas.RGB{0, 168, 0}},
		{0.47, canvas.RGB{0, 154, 0}}, {0.51, canvas.RGB{0, 149, 0}}, {0.57, canvas.RGB{0, 154, 0}},
		{0.68, canvas.RGB{0, 175, 0}}, {0.74, canvas.RGB{0, 180, 0}}, {0.80, canvas.RGB{0, 176, 0}},
		{0.86, canvas.RGB{0, 165, 0}}, {0.92, canvas.RGB{0, 147, 0}}, {0.97, canvas.RGB{0, 120, 0}},
		{1.00, canvas.RGB{0, 106, 0}},
	}
	backgroundStops = canvas.Stops{
		{0.00, canvas.RGB{202, 202, 202}}, {0.01, canvas.RGB{202, 202, 202}}, {0.04, canvas.RGB{212, 212, 212}},
		{0.10, canvas.RGB{226, 226, 226}}, {0.15, canvas.RGB{235, 235, 235}}, {0.21, canvas.RGB{242, 242, 242}},
		{0.27, canvas.RGB{247, 247, 247}}, {0.30, canvas.RGB{248, 248, 248}}, {0.31, canvas.RGB{240, 240, 240}},
		{0.55, canvas.RGB{240, 240, 240}}, {0.69, canvas.RGB{237, 237, 237}}, {0.77, canvas.RGB{232, 232, 232}},
		{0.83, canvas.RGB{226, 226, 226}}, {0.86, canvas.RGB{220, 220, 220}}, {0.92, canvas.RGB{202, 202, 202}},
		{0.99, canvas.RGB{173, 173, 173}}, {1.00, canvas.RGB{165, 165, 165}},
	}
	metalStops = canvas.Stops{
		{0.00, canvas.RGB{153, 153, 153}}, {0.05, canvas.RGB{178, 178, 178}}, {0.09, canvas.RGB{199, 199, 199}},
		{0.10, canvas.RGB{199, 199, 199}}, {0.17, canvas.RGB{235, 235, 235}}, {0.21, canvas.RGB{249, 249, 249}},
		{0.25, canvas.RGB{254, 254, 254}}, {0.28, canvas.RGB{249, 249, 249}}, {0.31, canvas.RGB{237, 237, 237}},
		{0.42, canvas.RGB{174, 174, 174}}, {0.43, canvas.RGB{166, 166, 166}}, {0.45, canvas.RGB{161, 161, 161}},
		{0.46, canvas.RGB{154, 154, 154}}, {0.50, canvas.RGB{150, 150, 150}}, {0.54, canvas.RGB{152, 152, 152}},
		{0.56, canvas.RGB{154, 154, 154}}, {0.69, canvas.RGB{175, 175, 175}}, {0.75, canvas.RGB{180, 180, 180}},
		{0.78, canvas.RGB{178, 178, 178}}, {0.84, canvas.RGB{170, 170, 170}}, {0.88, canvas.RGB{160, 160, 160}},
		{0.92, canvas.RGB{147, 147, 147}}, {0.96, canvas.RGB{127, 127, 127}}, {1.00, canvas.RGB{97, 97, 97}},
	}
)
