package tree

// aggregate rolls subpoints, point counts, weighted LOD and color up from the
// leaves to root. It is shared by all variants: data resolves a node index to its
// state and children appends the existing child indices of a node to buf.
//
// The LOD of a node is the point-count weighted mean
//
//	(Σ own.lod + Σ child.lod·child.count) / (max(1, #own) + Σ child.count)
//
// so a leaf with a single point takes that point's LOD exactly.
func aggregate(
	root int,
	mode ColorMode,
	data func(int) *nodeData,
	children func(idx int, buf []int) []int,
) {
	if root == none {
		return
	}
	type frame struct {
		idx      int
		expanded bool
	}
	stack := []frame{{idx: root}}
	var buf []int
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !top.expanded {
			stack = append(stack, frame{idx: top.idx, expanded: true})
			buf = children(top.idx, buf[:0])
			for i := len(buf) - 1; i >= 0; i-- {
				stack = append(stack, frame{idx: buf[i]})
			}
			continue
		}

		d := data(top.idx)
		own := d.own()

		d.subpoints = append(d.subpoints[:0], own...)
		d.count = len(own)
		total := 0.0
		for _, p := range own {
			total += p.LOD
		}
		divisor := float64(len(own))
		if divisor == 0 {
			divisor = 1
		}

		buf = children(top.idx, buf[:0])
		for _, c := range buf {
			cd := data(c)
			d.subpoints = append(d.subpoints, cd.subpoints...)
			d.count += cd.count
			total += cd.lod * float64(cd.count)
			divisor += float64(cd.count)
		}
		d.lod = total / divisor
		d.color = colorOf(mode, d.point, d.subpoints)
	}
}

// preOrder visits root and its descendants, each node before its children and
// children in the order reported by children.
func preOrder(root int, children func(idx int, buf []int) []int, fn func(idx int)) {
	if root == none {
		return
	}
	stack := []int{root}
	var buf []int
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(idx)
		buf = children(idx, buf[:0])
		for i := len(buf) - 1; i >= 0; i-- {
			stack = append(stack, buf[i])
		}
	}
}
