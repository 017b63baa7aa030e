package handlers

import (
	"concentrate-quality/app/server/constants"
	"concentrate-quality/app/server/models"
	"concentrate-quality/app/server/stats"
	"concentrate-quality/app/server/types"
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
)

func validatePeriod(month, year int) error {
	if month < constants.MonthMin || month > constants.MonthMax {
		return invalid("month", "ensure this value is between %d and %d", constants.MonthMin, constants.MonthMax)
	}
	if year < constants.YearMin {
		return invalid("year", "ensure this value is greater than %d", constants.YearMin-1)
	}
	return nil
}

// parsePeriod 读取并校验 month 与 year 查询参数
func parsePeriod(c echo.Context) (month, year int, err error) {
	if err = echo.QueryParamsBinder(c).
		MustInt("month", &month).
		MustInt("year", &year).
		BindError(); err != nil {
		var be *echo.BindingError
		if errors.As(err, &be) {
			if len(be.Values) == 0 {
				return 0, 0, invalid(be.Field, "field required")
			}
			return 0, 0, invalid(be.Field, "value is not a valid integer")
		}
		return 0, 0, invalid("query", "%s", err.Error())
	}

	if err = validatePeriod(month, year); err != nil {
		return 0, 0, err
	}
	return month, year, nil
}

func measurement(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, invalid(field, "field required")
	}
	if *v < constants.MeasurementMin || *v > constants.MeasurementMax {
		return 0, invalid(field, "ensure this value is between %g and %g", constants.MeasurementMin, constants.MeasurementMax)
	}
	return stats.Round2(*v), nil
}

// monthInput 校验保存请求体，指标统一保留两位小数
func monthInput(req *types.MonthDataInput) (month, year int, records []models.QualityRecord, err error) {
	if req.Month == nil {
		return 0, 0, nil, invalid("month", "field required")
	}
	if req.Year == nil {
		return 0, 0, nil, invalid("year", "field required")
	}
	if req.Data == nil {
		return 0, 0, nil, invalid("data", "field required")
	}
	month, year = *req.Month, *req.Year
	if err = validatePeriod(month, year); err != nil {
		return 0, 0, nil, err
	}

	records = make([]models.QualityRecord, 0, len(req.Data))
	for i, p := range req.Data {
		prefix := fmt.Sprintf("data[%d].", i)
		if p.Name == nil {
			return 0, 0, nil, invalid(prefix+"name", "field required")
		}

		r := models.QualityRecord{Name: *p.Name}
		for _, m := range []struct {
			field string
			src   *float64
			dst   *float64
		}{
			{"iron", p.Iron, &r.Iron},
			{"silicon", p.Silicon, &r.Silicon},
			{"aluminum", p.Aluminum, &r.Aluminum},
			{"calcium", p.Calcium, &r.Calcium},
			{"sulfur", p.Sulfur, &r.Sulfur},
		} {
			if *m.dst, err = measurement(prefix+m.field, m.src); err != nil {
				return 0, 0, nil, err
			}
		}
		records = append(records, r)
	}

	return month, year, records, nil
}
