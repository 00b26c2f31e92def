package png

// pass describes one Adam7 sub-image: its dimensions and its placement
// within the full image (start offset and stride on each axis).
type pass struct {
	width, height  int
	xStart, yStart int
	xStep, yStep   int
}

// adam7Passes are the seven fixed passes defined by the PNG spec's Adam7
// interlacing scheme, in transmission order.
var adam7Passes = [7]struct{ xStart, yStart, xStep, yStep int }{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// ceilDiv computes ceil(a/b) for non-negative a, b > 0.
func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// passGeometry returns the ordered list of passes an image of the given
// dimensions decomposes into under method. For InterlaceNone this is a
// single pass covering the whole image. For InterlaceAdam7 it is the
// (up to) seven Adam7 passes with zero-width or zero-height passes
// omitted, since such a pass contributes no row bytes at all.
func passGeometry(method InterlaceMethod, width, height int) []pass {
	if method == InterlaceNone {
		return []pass{{width: width, height: height, xStep: 1, yStep: 1}}
	}
	passes := make([]pass, 0, 7)
	for _, p := range adam7Passes {
		w := ceilDiv(width-p.xStart, p.xStep)
		h := ceilDiv(height-p.yStart, p.yStep)
		if w <= 0 || h <= 0 {
			continue
		}
		passes = append(passes, pass{
			width: w, height: h,
			xStart: p.xStart, yStart: p.yStart,
			xStep: p.xStep, yStep: p.yStep,
		})
	}
	return passes
}
