// SPDX-License-Identifier: MIT

package model_test

import (
	"fmt"

	"github.com/katalvlaran/mrsim/model"
	"github.com/katalvlaran/mrsim/params"
)

func ExampleSimulator_Jacobian() {
	sim, err := model.New(flash{}, model.WithDevice("cpu:2"), model.WithChunkSize(64))
	if err != nil {
		fmt.Println(err)
		return
	}
	res, err := sim.Jacobian(params.Values{"T1": {1000, 1200}, "T2": {80, 100}}, "T2")
	if err != nil {
		fmt.Println(err)
		return
	}
	r := res.Real()
	fmt.Printf("S = %.4f, dS/dT2 = %.6f\n", r.Signal[0][0], r.Jac[0][0][0])
	// Output:
	// S = 0.1890, dS/dT2 = 0.000118
}
