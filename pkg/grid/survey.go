package grid

// SourceSurvey is the grid of the numerical gas densities published at
// https://zenodo.org/record/5501196: 512×512×16 cells of 1/16 kpc covering
// [-16, 16]×[-16, 16]×[-0.5, 0.5] kpc.
var SourceSurvey = mustNew(Limits{
	{-15.96875, 15.96875},
	{-15.96875, 15.96875},
	{-0.46875, 0.46875},
}, [3]int{512, 512, 16})

func mustNew(centers Limits, counts [3]int) Descriptor {
	d, err := New(centers, counts)
	if err != nil {
		panic(err)
	}
	return d
}
