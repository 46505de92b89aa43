package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

// USDAService talks to the USDA FoodData Central API. It returns per-100g
// nutrient profiles only; what to do with them (cache, persist, aggregate)
// belongs to FoodService.
type USDAService struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewUSDAService() *USDAService {
	base := os.Getenv("USDA_API_URL")
	if base == "" {
		base = "https://api.nal.usda.gov/fdc/v1"
	}
	return &USDAService{
		apiKey:  os.Getenv("USDA_API_KEY"),
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// FDC nutrient numbers for the fields we keep.
const (
	fdcEnergyKcal = 1008
	fdcProtein    = 1003
	fdcFat        = 1004
	fdcCarbs      = 1005
	fdcFiber      = 1079
	fdcSugar      = 2000
	fdcSodium     = 1093
)

// USDAFood is a search/fetch result flattened to the catalog's shape,
// per 100 g.
type USDAFood struct {
	FdcID       string  `json:"fdcId"`
	Description string  `json:"description"`
	Brand       string  `json:"brand,omitempty"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Fat         float64 `json:"fat"`
	Carbs       float64 `json:"carbs"`
	Fiber       float64 `json:"fiber"`
	Sugar       float64 `json:"sugar"`
	Sodium      float64 `json:"sodium"`
}

type fdcSearchResponse struct {
	Foods []struct {
		FdcID         int64  `json:"fdcId"`
		Description   string `json:"description"`
		BrandOwner    string `json:"brandOwner"`
		FoodNutrients []struct {
			NutrientID int64   `json:"nutrientId"`
			Value      float64 `json:"value"`
		} `json:"foodNutrients"`
	} `json:"foods"`
}

func (s *USDAService) Search(query string, pageSize int) ([]USDAFood, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("USDA_API_KEY not configured")
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	u := fmt.Sprintf("%s/foods/search?query=%s&pageSize=%d&api_key=%s",
		s.baseURL, url.QueryEscape(query), pageSize, s.apiKey)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call FDC search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read FDC search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FDC search API error %d: %s", resp.StatusCode, string(body))
	}

	var sr fdcSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse FDC search JSON: %w", err)
	}

	results := make([]USDAFood, 0, len(sr.Foods))
	for _, f := range sr.Foods {
		out := USDAFood{
			FdcID:       strconv.FormatInt(f.FdcID, 10),
			Description: f.Description,
			Brand:       f.BrandOwner,
		}
		for _, n := range f.FoodNutrients {
			out.setNutrient(n.NutrientID, n.Value)
		}
		results = append(results, out)
	}
	return results, nil
}

type fdcFoodResponse struct {
	FdcID         int64  `json:"fdcId"`
	Description   string `json:"description"`
	BrandOwner    string `json:"brandOwner"`
	FoodNutrients []struct {
		Nutrient struct {
			ID int64 `json:"id"`
		} `json:"nutrient"`
		Amount float64 `json:"amount"`
	} `json:"foodNutrients"`
}

// Fetch retrieves a single food by FDC id.
func (s *USDAService) Fetch(fdcID string) (*USDAFood, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("USDA_API_KEY not configured")
	}
	u := fmt.Sprintf("%s/food/%s?api_key=%s", s.baseURL, url.PathEscape(fdcID), s.apiKey)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call FDC food endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read FDC food response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("FDC food API error %d: %s", resp.StatusCode, string(body))
	}

	var fr fdcFoodResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return nil, fmt.Errorf("failed to parse FDC food JSON: %w", err)
	}

	out := &USDAFood{
		FdcID:       strconv.FormatInt(fr.FdcID, 10),
		Description: fr.Description,
		Brand:       fr.BrandOwner,
	}
	for _, n := range fr.FoodNutrients {
		out.setNutrient(n.Nutrient.ID, n.Amount)
	}
	return out, nil
}

func (f *USDAFood) setNutrient(id int64, value float64) {
	switch id {
	case fdcEnergyKcal:
		f.Calories = value
	case fdcProtein:
		f.Protein = value
	case fdcFat:
		f.Fat = value
	case fdcCarbs:
		f.Carbs = value
	case fdcFiber:
		f.Fiber = value
	case fdcSugar:
		f.Sugar = value
	case fdcSodium:
		f.Sodium = value
	}
}
