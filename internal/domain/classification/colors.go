package classification

// Display colors per category. The mapping is fixed and independent of the
// classification logic; export writers and the grid both read it from here.
const (
	colorVioleta = "#9370DB" // diabetes
	colorCeleste = "#87CEEB" // hta
	colorVerde   = "#90EE90" // hipotiroidismo
	colorRojo    = "#FF6B6B" // diabetes + hta
	colorBlanco  = "#FFFFFF" // sin diagnostico
)

// Color returns the background hex color for a category. Unknown values fall
// back to white, same as ninguno.
func Color(c Category) string {
	switch c {
	case CategoryDiabetes:
		return colorVioleta
	case CategoryHTA:
		return colorCeleste
	case CategoryHipotiroidismo:
		return colorVerde
	case CategoryMixto:
		return colorRojo
	default:
		return colorBlanco
	}
}

// FontColor returns the foreground color that keeps text readable on top of
// the category background (white on the dark violet/red fills).
func FontColor(c Category) string {
	switch c {
	case CategoryDiabetes, CategoryMixto:
		return "#FFFFFF"
	default:
		return "#000000"
	}
}
