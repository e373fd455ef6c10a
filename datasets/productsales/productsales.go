// Package productsales implements the monthly product sales series of the
// anomaly detection sample.
package productsales

import (
	"github.com/neurlang/mlsamples/data"
)

// DataPath is the default location of the dataset.
const DataPath = "Data/product-sales.csv"

// DocSize is the number of points in the dataset.
const DocSize = 36

// ProductSalesData is one month.
type ProductSalesData struct {
	Month    string  `load:"0"`
	NumSales float32 `load:"1"`
}

// ProductSalesPrediction is the detector output vector.
type ProductSalesPrediction struct {
	Prediction []float64
}

// Load reads the comma separated file with a header.
func Load(path string) (*data.View, error) {
	return data.LoadFromTextFile[ProductSalesData](path, data.TextOptions{Separator: ',', HasHeader: true})
}
