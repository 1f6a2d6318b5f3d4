package conv_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-binaural/dsp/conv"
)

func ExampleDirect() {
	// Simple moving average filter
	signal := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1}
	kernel := []float64{0.25, 0.5, 0.25}

	result, _ := conv.Direct(signal, kernel)

	fmt.Printf("Output length: %d\n", len(result))
	fmt.Printf("First few values: %.2f, %.2f, %.2f\n", result[0], result[1], result[2])

	// Output:
	// Output length: 11
	// First few values: 0.25, 1.00, 2.00
}

func ExampleBlockEngine_ConvolveBlock() {
	// A one-sample delay, M=2, streamed through N=4 (L=3).
	engine, err := conv.NewBlockEngine(2, 4)
	if err != nil {
		panic(err)
	}

	h, err := engine.NewTransfer([]float64{0, 1})
	if err != nil {
		panic(err)
	}

	tail := make([]float64, engine.TailLen())
	out := make([]float64, engine.StepSize())

	for _, chunk := range [][]float64{{1, 2, 3}, {4, 5, 6}} {
		if err := engine.ConvolveBlock(out, tail, tail, chunk, h); err != nil {
			panic(err)
		}
		rounded := make([]int, len(out))
		for i, v := range out {
			rounded[i] = int(math.Round(v))
		}
		fmt.Println(rounded)
	}

	// Output:
	// [0 1 2]
	// [3 4 5]
}
