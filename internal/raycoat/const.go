package raycoat

const (
	DistributionType = "hexapolar"
	DistributionNum  = 6
	Wavelength       = 0.55 // microns
	PupilRadius      = 1.0
	CSVOut           = "rays.csv"
	IndexPre         = 1.0 // refraction indices when the coating carries no materials
	IndexPost        = 1.0
	// field directions shorter than this are rejected
	minDirNorm = 1e-12
)
