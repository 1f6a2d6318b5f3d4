package spatial_test

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/hrtf"
	"github.com/cwbudde/algo-binaural/spatial"
)

func ExampleRenderer() {
	repo, err := hrtf.New(44100, []hrtf.Entry{
		{
			Position: hrtf.Position{Direction: hrtf.Direction{Azimuth: -90}, Radius: 1},
			Left:     []float64{1, 0},
			Right:    []float64{0.25, 0},
		},
		{
			Position: hrtf.Position{Direction: hrtf.Direction{Azimuth: 90}, Radius: 1},
			Left:     []float64{0.25, 0},
			Right:    []float64{1, 0},
		},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	steering := spatial.NewSteering(hrtf.Direction{Azimuth: -80}, 0)
	r, err := spatial.NewRenderer(repo, []float64{1, 1, 1, 1, 1, 1}, steering,
		spatial.WithTransformSize(4),
		spatial.WithFadeBlocks(1),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	out := make([]float32, 2*r.BlockSize())
	for {
		done := r.Render(out)
		fmt.Printf("%.2f\n", out)
		if done {
			break
		}
	}
	fmt.Println(r.Status().Position.Direction)

	// Output:
	// [1.00 0.25 1.00 0.25 1.00 0.25]
	// [1.00 0.25 1.00 0.25 1.00 0.25]
	// az=-90.0 el=0.0
}
