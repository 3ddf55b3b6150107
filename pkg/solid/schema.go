package solid

// ParamSpec describes one dimension input for a form.
type ParamSpec struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
	Default float64 `json:"default"`
}

// Info is the display metadata of a solid.
type Info struct {
	Type        Type        `json:"type"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamSpec `json:"params"`
}

var catalog = map[Type]Info{
	Cube: {
		Type:        Cube,
		Name:        "Kubus",
		Description: "Kubus adalah bangun ruang sisi datar yang semua sisinya berbentuk persegi dan semua rusuknya sama panjang.",
		Params: []ParamSpec{
			{Key: "s", Label: "Sisi (s)", Min: 2, Max: 10, Step: 0.1, Default: 5},
		},
	},
	Box: {
		Type:        Box,
		Name:        "Balok",
		Description: "Balok adalah bangun ruang sisi datar yang memiliki tiga pasang sisi yang saling berhadapan.",
		Params: []ParamSpec{
			{Key: "p", Label: "Panjang (p)", Min: 3, Max: 10, Step: 0.1, Default: 6},
			{Key: "l", Label: "Lebar (l)", Min: 2, Max: 8, Step: 0.1, Default: 4},
			{Key: "t", Label: "Tinggi (t)", Min: 2, Max: 8, Step: 0.1, Default: 3},
		},
	},
	Cylinder: {
		Type:        Cylinder,
		Name:        "Tabung",
		Description: "Tabung adalah bangun ruang tiga dimensi yang dibentuk oleh dua buah lingkaran identik yang sejajar.",
		Params: []ParamSpec{
			{Key: "r", Label: "Jari-jari (r)", Min: 1, Max: 6, Step: 0.1, Default: 3},
			{Key: "t", Label: "Tinggi (t)", Min: 3, Max: 12, Step: 0.1, Default: 7},
		},
	},
	Pyramid: {
		Type:        Pyramid,
		Name:        "Limas Segi Empat",
		Description: "Limas segi empat adalah bangun ruang yang mempunyai alas segi empat dan sisi-sisi tegak berbentuk segitiga.",
		Params: []ParamSpec{
			{Key: "s", Label: "Sisi Alas (s)", Min: 3, Max: 10, Step: 0.1, Default: 8},
			{Key: "t", Label: "Tinggi (t)", Min: 3, Max: 12, Step: 0.1, Default: 10},
		},
	},
	Cone: {
		Type:        Cone,
		Name:        "Kerucut",
		Description: "Kerucut adalah sebuah limas istimewa yang beralas lingkaran.",
		Params: []ParamSpec{
			{Key: "r", Label: "Jari-jari (r)", Min: 2, Max: 7, Step: 0.1, Default: 5},
			{Key: "t", Label: "Tinggi (t)", Min: 3, Max: 12, Step: 0.1, Default: 10},
		},
	},
	Prism: {
		Type:        Prism,
		Name:        "Prisma Segitiga",
		Description: "Prisma segitiga adalah bangun ruang yang alas dan tutupnya berbentuk segitiga.",
		Params: []ParamSpec{
			{Key: "a", Label: "Alas Segitiga (a)", Min: 3, Max: 8, Step: 0.1, Default: 6},
			{Key: "t_alas", Label: "Tinggi Segitiga (ta)", Min: 2, Max: 8, Step: 0.1, Default: 5},
			{Key: "t_prisma", Label: "Tinggi Prisma (tp)", Min: 3, Max: 12, Step: 0.1, Default: 10},
		},
	},
}

// Describe returns the display metadata for t. Unknown types yield a
// zero Info.
func Describe(t Type) Info {
	info := catalog[t]
	info.Params = append([]ParamSpec(nil), info.Params...)
	return info
}

// Schema returns the parameter specs for t in form order.
func Schema(t Type) []ParamSpec {
	return Describe(t).Params
}

// Defaults returns the form defaults for t.
func Defaults(t Type) Params {
	p := make(Params)
	for _, ps := range catalog[t].Params {
		p[ps.Key] = ps.Default
	}
	return p
}
