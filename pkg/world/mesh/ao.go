package mesh

// CalcVertexAO returns the occlusion level of a vertex from the occupancy of
// its two side cells and the diagonal cell between them. 0 is fully
// occluded, 3 is open.
func CalcVertexAO(side1, side2, corner bool) uint8 {
	if side1 && side2 {
		return 0
	}
	return 3 - (b2u(side1) + b2u(side2) + b2u(corner))
}

// ConvertAO maps an occlusion level to the shader factor 1 - ao/3.
func ConvertAO(ao uint8) float32 {
	return 1 - float32(ao)/3
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
