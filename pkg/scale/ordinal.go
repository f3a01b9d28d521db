package scale

// Tableau10 is the ten-colour categorical palette used for file types.
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Ordinal assigns palette colours to keys in first-request order, cycling
// when the palette runs out. Not safe for concurrent use.
type Ordinal struct {
	palette []string
	index   map[string]int
	keys    []string
}

// NewOrdinal creates an ordinal scale over palette, Tableau10 when empty.
func NewOrdinal(palette ...string) *Ordinal {
	if len(palette) == 0 {
		palette = Tableau10
	}
	return &Ordinal{palette: palette, index: make(map[string]int)}
}

// Color returns the colour for key, assigning the next one on first use.
func (o *Ordinal) Color(key string) string {
	i, ok := o.index[key]
	if !ok {
		i = len(o.keys)
		o.index[key] = i
		o.keys = append(o.keys, key)
	}
	return o.palette[i%len(o.palette)]
}

// Domain returns the keys seen so far in assignment order.
func (o *Ordinal) Domain() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}
