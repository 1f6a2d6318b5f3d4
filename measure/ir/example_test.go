package ir_test

import (
	"fmt"

	"github.com/cwbudde/algo-binaural/measure/ir"
)

func ExampleAnalyzer_Interaural() {
	// Source on the right: the right ear hears it 10 samples earlier and
	// twice as loud.
	left := make([]float64, 64)
	right := make([]float64, 64)
	right[4] = 1
	left[14] = 0.5

	cues, err := ir.NewAnalyzer(10000).Interaural(left, right)
	if err != nil {
		panic(err)
	}

	fmt.Printf("ITD = %.1f ms\n", cues.ITD*1000)
	fmt.Printf("ILD = %.1f dB\n", cues.ILD)

	// Output:
	// ITD = -1.0 ms
	// ILD = 6.0 dB
}
