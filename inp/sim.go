// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"

	"github.com/zerpiko/soleimani-et-al-2009/mdl/hydraulic"
)

// Data holds global data for simulations
type Data struct {
	Desc     string  `json:"desc"`     // description of simulation
	DirOut   string  `json:"dirout"`   // directory for output; e.g. /tmp/soleimani
	Format   string  `json:"format"`   // output file format: "gnuplot" or "vtu"
	Terminal bool    `json:"terminal"` // print status lines in terminal
	FreqTrn  int     `json:"freqtrn"`  // output frequency during transport phase
	SandFrac float64 `json:"sandfrac"` // sand fraction label used in summary filename
}

// TimeData holds time-stepping data
type TimeData struct {
	TsMax   int     `json:"tsmax"`   // max number of timesteps
	Dt      float64 `json:"dt"`      // initial (baseline) time step [s]
	ThFlow  float64 `json:"thflow"`  // theta for the flow equation
	ThTrans float64 `json:"thtrans"` // theta for the transport equation
}

// GeoData holds geometry data
type GeoData struct {
	Ndim    int     `json:"ndim"`    // space dimension: 1 or 2
	Size    float64 `json:"size"`    // domain size L; analytic domain is [-L,0] (or [-L,0]²) [cm]
	RefLev  int     `json:"reflev"`  // refinement level for the analytic mesh
	UseMsh  bool    `json:"usemsh"`  // read mesh from file instead of generating
	Mshfile string  `json:"mshfile"` // mesh filename (when usemsh)
	Adapt   bool    `json:"adapt"`   // adapt 1D mesh during the run
}

// EqData holds equation selection data
type EqData struct {
	Form    string `json:"form"`    // moisture transport equation: "head" or "mixed"
	Lumped  bool   `json:"lumped"`  // use lumped mass matrix
	Model   string `json:"model"`   // hydraulic properties: "haverkamp_et_al_1977" or "van_genuchten_1980"
	RelPerm string `json:"relperm"` // relative permeability: soleimani, clement, okubo_and_matsumoto, vandevivere
	Coupled bool   `json:"coupled"` // couple substrate transport to flow
	TestTrn bool   `json:"testtrn"` // transport-only test mode
}

// IniData holds initial condition data
type IniData struct {
	State     string  `json:"state"`     // default | dry | saturated | no_drying | final
	Flow      float64 `json:"flow"`      // homogeneous initial pressure head [cm]
	Transport float64 `json:"transport"` // homogeneous initial substrate concentration [mg/l]
	Bacteria  float64 `json:"bacteria"`  // homogeneous initial biomass concentration [mg/l]
}

// BcData holds boundary condition data
type BcData struct {
	RichFixBot  bool    `json:"richfixbot"`  // fixed pressure head at bottom
	RichBotVal  float64 `json:"richbotval"`  // bottom fixed pressure head value [cm]
	RichFixTop  bool    `json:"richfixtop"`  // fixed pressure head at top
	RichTopVal  float64 `json:"richtopval"`  // top fixed pressure head value [cm]
	RichTopFlow float64 `json:"richtopflow"` // top flux value when not fixed [cm/s]
	RichTopFun  string  `json:"richtopfun"`  // name of a database function of time overriding richtopflow
	TrnFixTop   bool    `json:"trnfixtop"`   // fixed concentration at top
	TrnEntry    string  `json:"trnentry"`    // mass entry point: "top" or "bottom"
	TrnTopVal   float64 `json:"trntopval"`   // entry concentration [mg/l]
}

// MatData holds constitutive parameters. When a database file is given the
// named material overrides the inline parameters.
type MatData struct {
	Matfile  string  `json:"matfile"`  // material database filename (optional)
	Matname  string  `json:"matname"`  // material name within the database
	ThetaS   float64 `json:"thetas"`   // saturation moisture content
	ThetaR   float64 `json:"thetar"`   // residual moisture content
	Ksat     float64 `json:"ksat"`     // saturated hydraulic conductivity [cm/s]
	Alp      float64 `json:"alp"`      // van Genuchten α [1/cm]
	N        float64 `json:"n"`        // van Genuchten n
	Porosity float64 `json:"porosity"` // total porosity
	DispLong float64 `json:"displong"` // longitudinal dispersivity [cm]
	Diff     float64 `json:"diff"`     // effective molecular diffusion coefficient [cm²/s]
}

// ReacData holds reaction kinetics data
type ReacData struct {
	Decay      float64 `json:"decay"`      // biomass decay rate [1/s]
	Yield      float64 `json:"yield"`      // yield coefficient
	Kmax       float64 `json:"kmax"`       // maximum substrate use rate [1/s]
	Kc         float64 `json:"kc"`         // half-velocity (Monod) constant [mg/l]
	RhoBdry    float64 `json:"rhobdry"`    // biomass dry density [mg/cm³]
	HomoDecay  bool    `json:"homodecay"`  // enable homogeneous first-order substrate decay
	FirstOrder float64 `json:"firstorder"` // first-order decay factor [1/s]
	MonodSink  bool    `json:"monodsink"`  // enable Monod consumption sink in transport
}

// SolverData holds iteration and tolerance data
type SolverData struct {
	TolFlow    float64 `json:"tolflow"`    // relative tolerance for the flow Picard error
	TolTrans   float64 `json:"toltrans"`   // relative tolerance (percent) for the transport Picard error
	TolTest    float64 `json:"toltest"`    // tolerance for transport-only test mode
	NmaxIt     int     `json:"nmaxit"`     // Picard iterations before halving the time step
	LinTol     float64 `json:"lintol"`     // relative residual tolerance of linear solvers
	LinItFac   int     `json:"linitfac"`   // linear solver iteration cap = linitfac · n
	DtMin      float64 `json:"dtmin"`      // minimum time step [s]
	DtMaxFlow  float64 `json:"dtmaxflow"`  // maximum time step before transport activates [s]
	DtMaxTrans float64 `json:"dtmaxtrans"` // maximum time step during transport [s]
	DtGrow     int     `json:"dtgrow"`     // double dt while the iteration count stays below this
}

// SetDefault sets default values
func (o *SolverData) SetDefault() {
	o.TolFlow = 1e-8
	o.TolTrans = 1e-3
	o.TolTest = 1.5e-7
	o.NmaxIt = 40
	o.LinTol = 1e-8
	o.LinItFac = 1000
	o.DtMin = 1
	o.DtMaxFlow = 1
	o.DtMaxTrans = 60
	o.DtGrow = 15
}

// Simulation holds all simulation data
type Simulation struct {

	// input data
	Data   Data       `json:"data"`   // global information
	Time   TimeData   `json:"time"`   // time-stepping
	Geo    GeoData    `json:"geo"`    // geometry
	Eq     EqData     `json:"eq"`     // equation selection
	Ini    IniData    `json:"ini"`    // initial conditions
	Bc     BcData     `json:"bc"`     // boundary conditions
	Mat    MatData    `json:"mat"`    // constitutive parameters
	Reac   ReacData   `json:"reac"`   // reaction kinetics
	Solver SolverData `json:"solver"` // tolerances and iteration caps

	// derived
	Key       string                 // simulation filename key
	DirIn     string                 // directory of the .sim file
	Mixed     bool                   // mixed form selected
	HydroType hydraulic.Constitutive // parsed constitutive model
	RelPerm   hydraulic.RelPerm      // parsed relative permeability model
	HydroMdl  *hydraulic.Model       // initialised hydraulic model
	Mdb       *MatDb                 // material database (when matfile is given)
	TopFun    dbf.T                  // top flux function of time (when richtopfun is given)
}

// readBytes reads a whole file, recovering io.ReadFile's panic into an error
func readBytes(path string) (b []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = chk.Err("cannot read file %q:\n%v", path, r)
		}
	}()
	b = io.ReadFile(path)
	return
}

// ReadSim reads and validates a simulation input file
func ReadSim(simfilepath string, createDirOut bool) (*Simulation, error) {

	// new sim
	var o Simulation

	// read file
	b, err := readBytes(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// set default values
	o.Solver.SetDefault()

	// decode
	err = json.Unmarshal(b, &o)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q: %v", simfilepath, err)
	}

	// input directory and filename key
	o.DirIn = os.ExpandEnv(filepath.Dir(simfilepath))
	o.Key = io.FnKey(filepath.Base(simfilepath))

	// output directory
	if o.Data.DirOut == "" {
		o.Data.DirOut = "/tmp/soleimani/" + o.Key
	}
	if createDirOut {
		err = os.MkdirAll(o.Data.DirOut, 0777)
		if err != nil {
			return nil, chk.Err("ReadSim: cannot create directory for output results (%s): %v", o.Data.DirOut, err)
		}
	}

	// validate
	err = o.Validate()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Validate checks enumerations and initialises derived data
func (o *Simulation) Validate() (err error) {

	// equation form
	switch o.Eq.Form {
	case "head":
		o.Mixed = false
	case "mixed":
		o.Mixed = true
	default:
		return chk.Err("moisture transport equation %q is not implemented. Available options are: head, mixed", o.Eq.Form)
	}

	// constitutive models
	o.HydroType, err = hydraulic.ParseConstitutive(o.Eq.Model)
	if err != nil {
		return
	}
	o.RelPerm, err = hydraulic.ParseRelPerm(o.Eq.RelPerm)
	if err != nil {
		return
	}

	// initial state
	switch o.Ini.State {
	case "default", "final", "dry", "saturated", "no_drying":
	default:
		return chk.Err("%q is not a valid initial state", o.Ini.State)
	}

	// transport entry point
	switch strings.ToLower(o.Bc.TrnEntry) {
	case "", "top", "bottom":
	default:
		return chk.Err("transport mass entry point %q is not implemented. Available options are: top, bottom", o.Bc.TrnEntry)
	}

	// geometry
	if o.Geo.Ndim != 1 && o.Geo.Ndim != 2 {
		return chk.Err("space dimension must be 1 or 2. %d is invalid", o.Geo.Ndim)
	}
	if !o.Geo.UseMsh && o.Geo.Size <= 0 {
		return chk.Err("domain size must be positive. %g is invalid", o.Geo.Size)
	}

	// material database
	if o.Mat.Matfile != "" {
		o.Mdb, err = ReadMat(o.DirIn, o.Mat.Matfile)
		if err != nil {
			return
		}
	}

	// hydraulic model
	o.HydroMdl = new(hydraulic.Model)
	if o.Mdb != nil {
		mat := o.Mdb.Get(o.Mat.Matname)
		if mat == nil {
			return chk.Err("cannot find material %q in database %q", o.Mat.Matname, o.Mat.Matfile)
		}
		o.HydroType, err = hydraulic.ParseConstitutive(mat.Model)
		if err != nil {
			return
		}
		if mat.RelPerm != "" {
			o.RelPerm, err = hydraulic.ParseRelPerm(mat.RelPerm)
			if err != nil {
				return
			}
		}
		if err = o.HydroMdl.Init(o.HydroType, mat.Prms); err != nil {
			return
		}
	} else {
		o.HydroMdl.Type = o.HydroType
		o.HydroMdl.ThetaS = o.Mat.ThetaS
		o.HydroMdl.ThetaR = o.Mat.ThetaR
		o.HydroMdl.Ksat = o.Mat.Ksat
		o.HydroMdl.Alpha = o.Mat.Alp
		o.HydroMdl.N = o.Mat.N
		if o.Mat.N > 0 {
			o.HydroMdl.M = 1.0 - 1.0/o.Mat.N
		}
	}
	if o.HydroMdl.RhoBdry == 0 {
		o.HydroMdl.RhoBdry = o.Reac.RhoBdry
	}

	// top flux function of time
	if o.Bc.RichTopFun != "" {
		if o.Mdb == nil {
			return chk.Err("boundary function %q needs a material database file", o.Bc.RichTopFun)
		}
		o.TopFun, err = o.Mdb.Functions.Get(o.Bc.RichTopFun)
		if err != nil {
			return
		}
	}
	return
}

// EntryAtTop returns whether the transport mass entry point is the top face
func (o *Simulation) EntryAtTop() bool {
	return strings.ToLower(o.Bc.TrnEntry) != "bottom"
}
