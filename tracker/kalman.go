package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MeasureBox represents a 1x4 measurement vector (center x, center y,
// aspect ratio, height) using a slice of float32
type MeasureBox []float32

// StateMean represents the 1x8 state vector (position plus velocity
// components) using a slice of float32
type StateMean []float32

// StateCov represents an 8x8 state covariance matrix
type StateCov struct {
	*mat.Dense
}

// projectedMean represents a 1x4 matrix using a slice of float32
type projectedMean []float32

// KalmanFilter implements the constant-velocity motion model used to
// predict a track's position between frames.  State layout is
// (cx, cy, aspect, height, vcx, vcy, vaspect, vheight).
type KalmanFilter struct {
	stdWeightPosition float32
	stdWeightVelocity float32
	motionMat         *mat.Dense
	updateMat         *mat.Dense
}

// NewKalmanFilter initializes and returns a new KalmanFilter
func NewKalmanFilter(stdWeightPosition, stdWeightVelocity float32) *KalmanFilter {

	ndim := 4
	dt := float32(1.0)

	// identity motion matrix with dt terms linking position to velocity
	motionMat := mat.NewDense(8, 8, nil)

	for i := 0; i < 8; i++ {
		motionMat.Set(i, i, float64(1.0))
	}

	for i := 0; i < ndim; i++ {
		motionMat.Set(i, ndim+i, float64(dt))
	}

	// updateMat is a 4x8 matrix projecting state to measurement space
	updateMat := mat.NewDense(4, 8, nil)

	for i := 0; i < 4; i++ {
		updateMat.Set(i, i, float64(1.0))
	}

	return &KalmanFilter{
		stdWeightPosition: stdWeightPosition,
		stdWeightVelocity: stdWeightVelocity,
		motionMat:         motionMat,
		updateMat:         updateMat,
	}
}

// Initiate initializes the state mean and covariance from an unassociated
// measurement
func (kf *KalmanFilter) Initiate(mean StateMean, covariance *StateCov,
	measurement MeasureBox) {

	copy(mean[:4], measurement[:4])

	// velocity components start at zero
	for i := 4; i < 8; i++ {
		mean[i] = 0.0
	}

	// standard deviations scale with the measured height
	std := make(StateMean, 8)
	std[0] = 2 * kf.stdWeightPosition * measurement[3]
	std[1] = 2 * kf.stdWeightPosition * measurement[3]
	std[2] = 1e-2
	std[3] = 2 * kf.stdWeightPosition * measurement[3]
	std[4] = 10 * kf.stdWeightVelocity * measurement[3]
	std[5] = 10 * kf.stdWeightVelocity * measurement[3]
	std[6] = 1e-5
	std[7] = 10 * kf.stdWeightVelocity * measurement[3]

	// diagonal covariance from squared deviations
	for i, v := range std {
		covariance.Set(i, i, float64(v*v))
	}
}

// Predict advances the state mean and covariance one frame using the
// constant-velocity motion model
func (kf *KalmanFilter) Predict(mean StateMean, covariance *StateCov) {

	std := make(StateMean, 8)
	std[0] = kf.stdWeightPosition * mean[3]
	std[1] = kf.stdWeightPosition * mean[3]
	std[2] = 1e-2
	std[3] = kf.stdWeightPosition * mean[3]
	std[4] = kf.stdWeightVelocity * mean[3]
	std[5] = kf.stdWeightVelocity * mean[3]
	std[6] = 1e-5
	std[7] = kf.stdWeightVelocity * mean[3]

	// process noise covariance with variances on the diagonal
	motionCov := mat.NewDense(8, 8, nil)

	for i, v := range std {
		motionCov.Set(i, i, float64(v*v))
	}

	meanVec := mat.NewVecDense(8, nil)

	for i := 0; i < 8; i++ {
		meanVec.SetVec(i, float64(mean[i]))
	}

	meanMat := mat.NewDense(8, 1, meanVec.RawVector().Data)

	// x' = Fx
	meanMat.Mul(kf.motionMat, meanMat)

	for i := 0; i < 8; i++ {
		mean[i] = float32(meanMat.At(i, 0))
	}

	// P' = FPF^T + Q
	cov := covariance.Dense
	cov.Mul(kf.motionMat, cov)
	cov.Mul(cov, kf.motionMat.T())
	cov.Add(cov, motionCov)
}

// Update corrects the state mean and covariance with an associated
// measurement
func (kf *KalmanFilter) Update(mean StateMean, covariance *StateCov,
	measurement MeasureBox) error {

	projMean, projCov := kf.project(mean, covariance)

	chol := mat.Cholesky{}

	if ok := chol.Factorize(projCov); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	// B = P H^T for the Kalman gain computation
	B := mat.NewDense(8, 4, nil)
	B.Mul(covariance.Dense, kf.updateMat.T())

	var kalmanGain mat.Dense
	err := chol.SolveTo(&kalmanGain, B.T())

	if err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	// innovation (measurement residual)
	innovation := make([]float64, 4)

	for i := 0; i < 4; i++ {
		innovation[i] = float64(measurement[i] - projMean[i])
	}

	innovationVec := mat.NewVecDense(4, innovation)
	tmp := mat.NewVecDense(8, nil)
	tmp.MulVec(kalmanGain.T(), innovationVec)

	for i := 0; i < 8; i++ {
		mean[i] += float32(tmp.AtVec(i))
	}

	// P = P - K S K^T
	temp := mat.NewDense(8, 4, nil)
	temp.Mul(kalmanGain.T(), projCov)

	temp2 := mat.NewDense(8, 8, nil)
	temp2.Mul(temp, &kalmanGain)

	newCov := mat.NewDense(8, 8, nil)
	newCov.Sub(covariance.Dense, temp2)

	covariance.Dense = newCov

	return nil
}

// project maps the state mean and covariance into measurement space
func (kf *KalmanFilter) project(mean StateMean,
	covariance *StateCov) (projectedMean, *mat.SymDense) {

	// measurement noise scales with the state height
	std := make(MeasureBox, 4)
	std[0] = kf.stdWeightPosition * mean[3]
	std[1] = kf.stdWeightPosition * mean[3]
	std[2] = 1e-1
	std[3] = kf.stdWeightPosition * mean[3]

	innovationCov := mat.NewSymDense(4, nil)

	for i := 0; i < 4; i++ {
		innovationCov.SetSym(i, i, float64(std[i]*std[i]))
	}

	projMeanVec := mat.NewVecDense(4, nil)
	projMeanVec.MulVec(
		kf.updateMat, mat.NewVecDense(8, func() []float64 {
			data := make([]float64, 8)
			for i, v := range mean {
				data[i] = float64(v)
			}
			return data
		}()),
	)

	// S = H P H^T + R
	projCov := mat.NewSymDense(4, nil)
	temp := mat.NewDense(4, 8, nil)
	temp.Mul(kf.updateMat, covariance.Dense)
	temp2 := mat.NewDense(4, 4, nil)
	temp2.Mul(temp, kf.updateMat.T())

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			projCov.SetSym(i, j, temp2.At(i, j))
		}
	}

	projCov.AddSym(projCov, innovationCov)

	projMean := make(projectedMean, 4)

	for i := 0; i < 4; i++ {
		projMean[i] = float32(projMeanVec.AtVec(i))
	}

	return projMean, projCov
}
