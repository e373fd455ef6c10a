package productsales

import (
	"testing"

	"go.viam.com/test"

	"github.com/neurlang/mlsamples/data"
)

func TestLoad(t *testing.T) {
	v, err := Load("testdata/product-sales.csv")
	test.That(t, err, test.ShouldBeNil)
	sales, err := v.ColumnOf("NumSales", data.Float)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, sales.Floats[0], test.ShouldEqual, 271)
	test.That(t, sales.Floats[1], test.ShouldAlmostEqual, 150.9, 1e-5)
	test.That(t, sales.Floats[2], test.ShouldAlmostEqual, 188.1, 1e-5)
}
