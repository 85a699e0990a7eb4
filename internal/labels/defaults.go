package labels

// DefaultTypeset returns the labels used in the LaTeX report.
func DefaultTypeset() Table {
	return Table{
		Cases: map[string]string{
			"sqrt_x_1":      `$\sqrt{x+1}$`,
			"sqrt_x_plus_1": `$\sqrt{x+1}$`,
			"exp_x":         `$e^x$`,
		},
		Methods: map[string]string{
			"forward":  "Forward difference",
			"backward": "Backward difference",
			"center":   "Centered difference",
			"special":  "Richardson-extrapolated forward difference",
		},
	}
}

// DefaultPlain returns the labels used in charts and plain-text output.
func DefaultPlain() Table {
	return Table{
		Cases: map[string]string{
			"sqrt_x_1":      "sqrt(x+1)",
			"sqrt_x_plus_1": "sqrt(x+1)",
			"exp_x":         "e^x",
		},
		Methods: map[string]string{
			"forward":  "forward",
			"backward": "backward",
			"center":   "centered",
			"special":  "special",
		},
	}
}
