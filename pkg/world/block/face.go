package block

import "github.com/go-gl/mathgl/mgl32"

// Face is one of the six sides of a cube.
type Face uint8

const (
	Back Face = iota
	Bottom
	Top
	Front
	Left
	Right
)

var allFaces = []Face{Back, Bottom, Top, Front, Left, Right}

// AllFaces returns every face in meshing order.
func AllFaces() []Face { return allFaces }

// CubeVertex holds the eight unit-cube corners centred on the origin.
var CubeVertex = [8]mgl32.Vec3{
	{-0.5, -0.5, -0.5},
	{-0.5, 0.5, -0.5},
	{0.5, 0.5, -0.5},
	{0.5, -0.5, -0.5},
	{-0.5, -0.5, 0.5},
	{-0.5, 0.5, 0.5},
	{0.5, 0.5, 0.5},
	{0.5, -0.5, 0.5},
}

type faceInfo struct {
	name     string
	indices  [6]uint32
	normal   mgl32.Vec3
	opposite Face
}

var faceTable = [...]faceInfo{
	Back:   {"back", [6]uint32{7, 6, 5, 7, 5, 4}, mgl32.Vec3{0, 0, 1}, Front},
	Bottom: {"bottom", [6]uint32{4, 0, 3, 4, 3, 7}, mgl32.Vec3{0, -1, 0}, Top},
	Top:    {"top", [6]uint32{1, 5, 6, 1, 6, 2}, mgl32.Vec3{0, 1, 0}, Bottom},
	Front:  {"front", [6]uint32{0, 1, 2, 0, 2, 3}, mgl32.Vec3{0, 0, -1}, Back},
	Left:   {"left", [6]uint32{4, 5, 1, 4, 1, 0}, mgl32.Vec3{-1, 0, 0}, Right},
	Right:  {"right", [6]uint32{3, 2, 6, 3, 6, 7}, mgl32.Vec3{1, 0, 0}, Left},
}

// Indices returns the two triangles of f as CubeVertex indices.
func (f Face) Indices() [6]uint32 { return faceTable[f].indices }

// Normal returns the outward unit normal of f.
func (f Face) Normal() mgl32.Vec3 { return faceTable[f].normal }

// Opposite returns the face pointing the other way.
func (f Face) Opposite() Face { return faceTable[f].opposite }

func (f Face) String() string { return faceTable[f].name }

// Quad returns the four distinct corners of f in first-use order together
// with the triangle indices remapped onto them.
func (f Face) Quad() (corners [4]uint32, indices [6]uint32) {
	n := 0
	for i, c := range faceTable[f].indices {
		k := 0
		for k < n && corners[k] != c {
			k++
		}
		if k == n {
			corners[n] = c
			n++
		}
		indices[i] = uint32(k)
	}
	return corners, indices
}
