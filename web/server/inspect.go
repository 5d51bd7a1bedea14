package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	GeometryType string         `json:"geometryType,omitempty"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	Color        [3]float64     `json:"color"` // traced pixel color, unclamped
	Hex          string         `json:"hex"`   // pixel color as written to images
	Material     map[string]any `json:"material,omitempty"`
	Geometry     map[string]any `json:"geometry,omitempty"`
	Lights       []LightInfo    `json:"lights,omitempty"`
}

// LightInfo reports one light's contribution at the inspected point
type LightInfo struct {
	Index     int     `json:"index"`
	Distance  float64 `json:"distance"`
	Occluded  bool    `json:"occluded"`
	Intensity float64 `json:"intensity"`
}

func vec(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	return fmt.Sprintf("#%02x%02x%02x", output.ChannelByte(c.X), output.ChannelByte(c.Y), output.ChannelByte(c.Z))
}

// extractMaterialInfo lists the shading coefficients of a material
func extractMaterialInfo(mat material.Material) map[string]any {
	return map[string]any{
		"color":    vec(mat.Color),
		"hex":      hexColor(mat.Color),
		"ambient":  mat.Ambient,
		"lambert":  mat.Lambert,
		"specular": mat.Specular,
	}
}

// extractGeometryInfo extracts shape parameters with type assertions
func extractGeometryInfo(prim geometry.Primitive) (string, map[string]any) {
	switch p := prim.(type) {
	case *geometry.Sphere:
		return "sphere", map[string]any{
			"center": vec(p.Center),
			"radius": p.Radius,
		}
	case *geometry.Plane:
		return "plane", map[string]any{
			"point":  vec(p.Point),
			"normal": vec(p.Normal),
		}
	default:
		return fmt.Sprintf("%T", prim), nil
	}
}

func inspectPixel(rt *renderer.Raytracer, x, y int) (InspectResponse, error) {
	info, err := rt.InspectPixel(x, y)
	if err != nil {
		return InspectResponse{}, err
	}

	response := InspectResponse{
		Hit:   info.Hit,
		Color: vec(info.Color),
		Hex:   hexColor(info.Color),
	}
	if !info.Hit {
		return response, nil
	}

	response.Point = vec(info.Point)
	response.Normal = vec(info.Normal)
	response.Distance = info.Distance
	response.GeometryType, response.Geometry = extractGeometryInfo(info.Primitive)
	response.Material = extractMaterialInfo(info.Primitive.GetMaterial())
	for _, l := range info.Lights {
		response.Lights = append(response.Lights, LightInfo(l))
	}
	return response, nil
}

// handleInspect reports what the primary ray of one pixel hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	query := r.URL.Query()
	x, errX := strconv.Atoi(query.Get("x"))
	y, errY := strconv.Atoi(query.Get("y"))
	if errX != nil || errY != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("x and y must be integers, got %q and %q", query.Get("x"), query.Get("y")))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	response, err := inspectPixel(newRaytracer(sceneObj, req), x, y)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, core.ErrZeroLength) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}
