package hrtf_test

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/hrtf"
)

func ExampleRepository_Nearest() {
	left := func(az float64) hrtf.Entry {
		return hrtf.Entry{
			Position: hrtf.Position{Direction: hrtf.Direction{Azimuth: az}, Radius: 1},
			Left:     []float64{1, 0},
			Right:    []float64{0, 1},
		}
	}

	repo, err := hrtf.New(44100, []hrtf.Entry{left(-90), left(90)})
	if err != nil {
		fmt.Println(err)
		return
	}

	idx, e := repo.Nearest(hrtf.Direction{Azimuth: -89})
	fmt.Println(idx, e.Position)
	// Output: 0 az=-90.0 el=0.0 r=1.00
}
