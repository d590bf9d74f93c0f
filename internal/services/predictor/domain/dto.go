package domain

// PredictInput is the body of POST /predictor/predict
type PredictInput struct {
	Latitude  *float64 `json:"latitude"             validate:"required,gte=-90,lte=90"       example:"41.8781"`
	Longitude *float64 `json:"longitude"            validate:"required,gte=-180,lte=180"     example:"-87.6298"`
	Date      string   `json:"date"                 validate:"required"                      example:"2026-10-16"`
	CrimeType string   `json:"crime_type,omitempty" validate:"omitempty,max=64"              example:"ROBBERY"`
}

// Factor is one global feature importance
type Factor struct {
	Feature    string  `json:"feature"    example:"crime_density"`
	Importance float64 `json:"importance" example:"0.31"`
}

// PredictionProperties documents the properties of each prediction feature
type PredictionProperties struct {
	Probability  float64  `json:"probability"   example:"0.72"`
	CrimeType    string   `json:"crime_type"    example:"ALL"`
	Radius       int      `json:"radius"        example:"300"`
	Factors      []Factor `json:"factors"`
	Address      *string  `json:"address"`
	TimeOfDay    string   `json:"time_of_day"   example:"Evening"`
	ModelVersion string   `json:"model_version" example:"01927b3e-9c1a-7d2e-8f00-5a1b2c3d4e5f"`
}

// PointGeometry documents a GeoJSON point
type PointGeometry struct {
	Type        string     `json:"type"        example:"Point"`
	Coordinates [2]float64 `json:"coordinates"`
}

// PredictionFeature documents one GeoJSON feature of a prediction
type PredictionFeature struct {
	Type       string               `json:"type" example:"Feature"`
	Geometry   PointGeometry        `json:"geometry"`
	Properties PredictionProperties `json:"properties"`
}

// PredictionCollection documents the predict response
type PredictionCollection struct {
	Type     string              `json:"type" example:"FeatureCollection"`
	Features []PredictionFeature `json:"features"`
}
