// SPDX-License-Identifier: MIT

package jacobian

// Result holds the forward signal and its Jacobian.
type Result struct {
	Names  []string         // column order
	Signal [][]complex128   // [atom][t]
	Jac    [][][]complex128 // [atom][t][k], aligned with Signal and Names
}

// Column returns the derivative array of name, shaped like Signal.
func (r *Result) Column(name string) ([][]complex128, bool) {
	k := -1
	for i, n := range r.Names {
		if n == name {
			k = i
			break
		}
	}
	if k < 0 {
		return nil, false
	}
	out := make([][]complex128, len(r.Jac))
	for a, rows := range r.Jac {
		out[a] = make([]complex128, len(rows))
		for t, row := range rows {
			out[a][t] = row[k]
		}
	}

	return out, true
}

// RealResult is the real-part view of a Result.
type RealResult struct {
	Names  []string
	Signal [][]float64
	Jac    [][][]float64
}

// Real drops the imaginary parts of the signal and of every derivative.
func (r *Result) Real() RealResult {
	out := RealResult{
		Names:  append([]string(nil), r.Names...),
		Signal: make([][]float64, len(r.Signal)),
		Jac:    make([][][]float64, len(r.Jac)),
	}
	for a, sig := range r.Signal {
		out.Signal[a] = make([]float64, len(sig))
		for t, v := range sig {
			out.Signal[a][t] = real(v)
		}
	}
	for a, rows := range r.Jac {
		out.Jac[a] = make([][]float64, len(rows))
		for t, row := range rows {
			out.Jac[a][t] = make([]float64, len(row))
			for k, v := range row {
				out.Jac[a][t][k] = real(v)
			}
		}
	}

	return out
}
