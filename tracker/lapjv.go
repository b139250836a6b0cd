package tracker

import (
	"errors"
)

// large is the cost used to represent an unreachable assignment
const large = 1000000.0

// solveAssignment solves the rectangular linear assignment problem for the
// given cost matrix with a maximum acceptable cost per pairing.  The matrix
// is extended to a square form padded at costLimit/2 so that any pairing
// whose cost exceeds costLimit is left unassigned, following the lapjv
// extend_cost technique.  rowsol[i] holds the column assigned to row i or
// -1, colsol[j] the row assigned to column j or -1.
func solveAssignment(cost [][]float32, costLimit float32) (rowsol []int,
	colsol []int, err error) {

	nRows := len(cost)
	nCols := len(cost[0])
	rowsol = make([]int, nRows)
	colsol = make([]int, nCols)

	// build the extended square matrix
	n := nRows + nCols
	costX := make([][]float64, n)

	for i := range costX {
		costX[i] = make([]float64, n)

		for j := range costX[i] {
			costX[i][j] = float64(costLimit) / 2.0
		}
	}

	for i := nRows; i < n; i++ {
		for j := nCols; j < n; j++ {
			costX[i][j] = 0
		}
	}

	for i := 0; i < nRows; i++ {
		for j := 0; j < nCols; j++ {
			costX[i][j] = float64(cost[i][j])
		}
	}

	xSol := make([]int, n)
	ySol := make([]int, n)

	ret, err := lapjvDense(n, costX, xSol, ySol)

	if ret != 0 || err != nil {
		return nil, nil, errors.Join(
			errors.New("lapjv solve failed"), err)
	}

	// assignments landing in the padded region are unmatched
	for i := 0; i < n; i++ {
		if xSol[i] >= nCols {
			xSol[i] = -1
		}
		if ySol[i] >= nRows {
			ySol[i] = -1
		}
	}

	copy(rowsol, xSol[:nRows])
	copy(colsol, ySol[:nCols])

	return rowsol, colsol, nil
}

// lapjvDense solves the dense Linear Assignment Problem using the
// Jonker-Volgenant algorithm
func lapjvDense(n int, cost [][]float64, x, y []int) (int, error) {

	freeRows := make([]int, n)
	v := make([]float64, n)

	ret := columnReduction(n, cost, freeRows, x, y, v)

	i := 0

	for ret > 0 && i < 2 {
		ret = augmentingRowReduction(n, cost, ret, freeRows, x, y, v)
		i++
	}

	if ret > 0 {
		err := augment(n, cost, ret, freeRows, x, y, v)

		if err != nil {
			return 0, err
		}

		ret = 0
	}

	return ret, nil
}

// columnReduction performs column-reduction and reduction transfer for a
// dense cost matrix
func columnReduction(n int, cost [][]float64, freeRows, x, y []int, v []float64) int {

	unique := make([]bool, n)

	for i := 0; i < n; i++ {
		x[i] = -1
		v[i] = large
		y[i] = 0
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := cost[i][j]
			if c < v[j] {
				v[j] = c
				y[j] = i
			}
		}
	}

	for i := 0; i < n; i++ {
		unique[i] = true
	}

	j := n

	for j > 0 {
		j--
		i := y[j]
		if x[i] < 0 {
			x[i] = j
		} else {
			unique[i] = false
			y[j] = -1
		}
	}

	nFreeRows := 0

	for i := 0; i < n; i++ {

		if x[i] < 0 {
			freeRows[nFreeRows] = i
			nFreeRows++

		} else if unique[i] {

			j := x[i]
			minVal := float64(large)

			for j2 := 0; j2 < n; j2++ {
				if j2 == j {
					continue
				}

				c := cost[i][j2] - v[j2]

				if c < minVal {
					minVal = c
				}
			}

			v[j] -= minVal
		}
	}

	return nFreeRows
}

// augmentingRowReduction performs augmenting row reduction for a dense
// cost matrix
func augmentingRowReduction(n int, cost [][]float64, nFreeRows int, freeRows,
	x, y []int, v []float64) int {

	current := 0
	newFreeRows := 0
	rrCnt := 0

	for current < nFreeRows {

		rrCnt++
		freeI := freeRows[current]
		current++

		j1 := 0
		v1 := cost[freeI][0] - v[0]
		j2 := -1
		v2 := float64(large)

		for j := 1; j < n; j++ {
			c := cost[freeI][j] - v[j]
			if c < v2 {
				if c >= v1 {
					v2 = c
					j2 = j
				} else {
					v2 = v1
					v1 = c
					j2 = j1
					j1 = j
				}
			}
		}

		i0 := y[j1]
		v1New := v[j1] - (v2 - v1)
		v1Lowers := v1New < v[j1]

		if rrCnt < current*n {
			if v1Lowers {
				v[j1] = v1New
			} else if i0 >= 0 && j2 >= 0 {
				j1 = j2
				i0 = y[j2]
			}

			if i0 >= 0 {
				if v1Lowers {
					current--
					freeRows[current] = i0
				} else {
					freeRows[newFreeRows] = i0
					newFreeRows++
				}
			}
		} else {
			if i0 >= 0 {
				freeRows[newFreeRows] = i0
				newFreeRows++
			}
		}

		x[freeI] = j1
		y[j1] = freeI
	}

	return newFreeRows
}

// findColumns finds columns with minimum d[j] and puts them on the SCAN list
func findColumns(n int, lo int, d []float64, cols, y []int) int {

	hi := lo + 1
	mind := d[cols[lo]]

	for k := hi; k < n; k++ {

		j := cols[k]

		if d[j] <= mind {
			if d[j] < mind {
				hi = lo
				mind = d[j]
			}

			cols[k] = cols[hi]
			cols[hi] = j
			hi++
		}
	}

	return hi
}

// scanColumns scans all columns on the TODO list starting from an arbitrary
// SCAN column and tries to decrease d of the TODO columns using the SCAN
// column
func scanColumns(n int, cost [][]float64, lo, hi *int, d []float64,
	cols, pred, y []int, v []float64) int {

	for *lo != *hi {

		j := cols[*lo]
		*lo++
		i := y[j]
		mind := d[j]
		h := cost[i][j] - v[j] - mind

		for k := *hi; k < n; k++ {
			j = cols[k]
			credIJ := cost[i][j] - v[j] - h

			if credIJ < d[j] {
				d[j] = credIJ
				pred[j] = i

				if credIJ == mind {
					if y[j] < 0 {
						return j
					}

					cols[k] = cols[*hi]
					cols[*hi] = j
					(*hi)++
				}
			}
		}
	}

	return -1
}

// findPath performs a single iteration of the modified Dijkstra shortest
// path algorithm from the JV paper, dense matrix version
func findPath(n int, cost [][]float64, startI int, y []int, v []float64,
	pred []int) int {

	lo := 0
	hi := 0
	finalJ := -1
	nReady := 0
	cols := make([]int, n)
	d := make([]float64, n)

	for i := 0; i < n; i++ {
		cols[i] = i
		pred[i] = startI
		d[i] = cost[startI][i] - v[i]
	}

	for finalJ == -1 {
		// no columns left on the SCAN list
		if lo == hi {
			nReady = lo
			hi = findColumns(n, lo, d, cols, y)

			for k := lo; k < hi; k++ {
				j := cols[k]

				if y[j] < 0 {
					finalJ = j
				}
			}
		}

		if finalJ == -1 {
			finalJ = scanColumns(n, cost, &lo, &hi, d, cols, pred, y, v)
		}
	}

	mind := d[cols[lo]]

	for k := 0; k < nReady; k++ {
		j := cols[k]
		v[j] += d[j] - mind
	}

	return finalJ
}

// augment performs augmentation for a dense cost matrix
func augment(n int, cost [][]float64, nFreeRows int, freeRows,
	x, y []int, v []float64) error {

	pred := make([]int, n)

	for _, freeI := range freeRows[:nFreeRows] {

		i := -1
		k := 0

		j := findPath(n, cost, freeI, y, v, pred)

		if j < 0 {
			return errors.New("augment failed: j < 0")
		}

		if j >= n {
			return errors.New("augment failed: j >= n")
		}

		for i != freeI {

			i = pred[j]
			y[j] = i
			j, x[i] = x[i], j
			k++

			if k >= n {
				return errors.New("augment failed: k >= n")
			}
		}
	}

	return nil
}
