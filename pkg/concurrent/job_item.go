package concurrent

import (
	"github.com/fieldcanvas/territoryx/pkg/datastructure"
)

// MatrixCellParam is one cell of a pairwise travel matrix: solve the path
// from stop Row to stop Col.
type MatrixCellParam struct {
	Row  int
	Col  int
	From datastructure.Coordinate
	To   datastructure.Coordinate
}

func NewMatrixCellParam(row, col int, from, to datastructure.Coordinate) MatrixCellParam {
	return MatrixCellParam{
		Row:  row,
		Col:  col,
		From: from,
		To:   to,
	}
}

type JobI interface {
	MatrixCellParam | []int32
}

type JobFunc[T JobI, G any] func(job T) G
