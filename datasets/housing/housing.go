// Package housing holds the in memory house price data of the hello world regression.
package housing

// HouseData is one house, Size in thousands of square feet and Price in
// hundreds of thousands.
type HouseData struct {
	Size  float32
	Price float32
}

// Prediction reads the regression score as a price.
type Prediction struct {
	Price float32 `col:"Score"`
}

// Train is the training set.
var Train = []HouseData{
	{Size: 1.1, Price: 1.2},
	{Size: 1.9, Price: 2.3},
	{Size: 2.8, Price: 3.0},
	{Size: 3.4, Price: 3.7},
}

// Test is the evaluation set.
var Test = []HouseData{
	{Size: 1.1, Price: 0.98},
	{Size: 1.9, Price: 2.1},
	{Size: 2.8, Price: 2.9},
	{Size: 3.4, Price: 3.6},
}
