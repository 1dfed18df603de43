package fractal

import "github.com/pthm-cable/patterns/grid"

// Default views for each family.
var (
	MandelbrotView  = grid.Bounds{Xmin: -2.5, Xmax: 1.0, Ymin: -1.0, Ymax: 1.0}
	JuliaView       = grid.Bounds{Xmin: -2.0, Xmax: 2.0, Ymin: -1.5, Ymax: 1.5}
	BurningShipView = grid.Bounds{Xmin: -2.0, Xmax: 1.0, Ymin: -2.0, Ymax: 1.0}
)

// Classic landmarks in the Mandelbrot set.
var (
	// Seahorse Valley – dense filaments and repeating "seahorse" curls
	SeahorseValley = grid.Bounds{Xmin: -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = grid.Bounds{Xmin: -1.85, Xmax: -1.75, Ymin: -0.10, Ymax: -0.02}

	// Spiral Minibrot – small copy with tight spiral arms
	SpiralMinibrot = grid.Bounds{Xmin: -0.7435, Xmax: -0.7420, Ymin: 0.1310, Ymax: 0.1325}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = grid.Bounds{Xmin: -0.7480, Xmax: -0.7450, Ymin: 0.0950, Ymax: 0.0980}

	// Valley of the Dragon – deep spiral filaments
	ValleyOfTheDragon = grid.Bounds{Xmin: -0.7400, Xmax: -0.7350, Ymin: 0.1800, Ymax: 0.1850}
)

// Regions indexes the landmarks by the names accepted in config files.
var Regions = map[string]grid.Bounds{
	"mandelbrot":           MandelbrotView,
	"julia":                JuliaView,
	"burning_ship":         BurningShipView,
	"seahorse_valley":      SeahorseValley,
	"elephant_valley":      ElephantValley,
	"spiral_minibrot":      SpiralMinibrot,
	"triple_spiral":        TripleSpiral,
	"valley_of_the_dragon": ValleyOfTheDragon,
}

// JuliaConstants are well-known c values producing connected, detailed sets.
var JuliaConstants = []complex128{
	-0.4 + 0.6i,
	0.285 + 0.01i,
	-0.8 + 0.156i,
	-0.7269 + 0.1889i,
}
