package handlers

import (
	"concentrate-quality/app/server/cache"
	"concentrate-quality/app/server/middlewares"
	"concentrate-quality/app/server/models"
	"concentrate-quality/app/server/stats"
	"concentrate-quality/app/server/types"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errNoUser = errors.New("no authenticated user in context")

// QualitySave 保存某个周期的质量数据
func (a *App) QualitySave(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return a.saveError(c, errNoUser)
	}

	rctx := c.Request().Context()

	// 绑定请求体
	var req types.MonthDataInput
	if err := c.Bind(&req); err != nil {
		a.l.Warn("failed to bind request", zap.Error(err))
		return a.httpError(c, invalid("body", "invalid JSON body"))
	}

	month, year, records, err := monthInput(&req)
	if err != nil {
		return a.httpError(c, err)
	}

	a.l.Info("saving quality data",
		zap.String("username", user.Username),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("count", len(records)),
		zap.Bool("replace", req.Replace),
	)

	if err = a.store.UpsertMonthRecords(rctx, month, year, user.ID, records, req.Replace); err != nil {
		a.l.Error("failed to save quality data", zap.Int("month", month), zap.Int("year", year), zap.Error(err))
		return a.saveError(c, err)
	}

	// 周期内的报表已经过期
	if err = a.cache.InvalidatePeriod(rctx, month, year); err != nil {
		a.l.Error("failed to invalidate summary cache", zap.Int("month", month), zap.Int("year", year), zap.Error(err))
	}

	return c.JSON(http.StatusOK, &types.SaveStatus{
		Status: "ok",
	})
}

// QualityGet 获取当前用户在某个周期的原始数据
func (a *App) QualityGet(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return a.httpError(c, errNoUser)
	}

	month, year, err := parsePeriod(c)
	if err != nil {
		return a.httpError(c, err)
	}

	rctx := c.Request().Context()

	a.l.Info("querying quality data", zap.String("username", user.Username), zap.Int("month", month), zap.Int("year", year))
	rows, err := a.store.QueryMonthRecords(rctx, month, year, user.ID)
	if err != nil {
		return a.httpError(c, err)
	}

	data := make([]types.Record, 0, len(rows))
	for _, r := range rows {
		data = append(data, types.Record{
			Name:     r.Name,
			Iron:     r.Iron,
			Silicon:  r.Silicon,
			Aluminum: r.Aluminum,
			Calcium:  r.Calcium,
			Sulfur:   r.Sulfur,
		})
	}

	return c.JSON(http.StatusOK, &types.MonthData{
		Month: month,
		Year:  year,
		Data:  data,
	})
}

// QualitySummary 获取当前用户在某个周期的统计报表
func (a *App) QualitySummary(c echo.Context) error {
	user, ok := middlewares.CurrentUser(c)
	if !ok {
		return a.httpError(c, errNoUser)
	}

	month, year, err := parsePeriod(c)
	if err != nil {
		return a.httpError(c, err)
	}

	rctx := c.Request().Context()

	// 查询缓存
	if summary, err := a.cache.Get(rctx, month, year, user.ID); err == nil {
		return c.JSON(http.StatusOK, summary)
	} else if !errors.Is(err, cache.ErrMiss) {
		a.l.Error("failed to query summary cache", zap.Int("month", month), zap.Int("year", year), zap.Error(err))
	}

	// 版本需要在查询数据库之前读取
	generation, genErr := a.cache.Generation(rctx, month, year)
	if genErr != nil {
		a.l.Error("failed to query summary generation", zap.Int("month", month), zap.Int("year", year), zap.Error(genErr))
	}

	// 查询数据库
	a.l.Info("building summary", zap.String("username", user.Username), zap.Int("month", month), zap.Int("year", year))
	rows, err := a.store.QueryMonthRecords(rctx, month, year, user.ID)
	if err != nil {
		return a.httpError(c, err)
	}
	if len(rows) == 0 {
		a.l.Warn("no data for summary", zap.Int("month", month), zap.Int("year", year))
		return a.httpError(c, ErrNoDataForPeriod)
	}

	summary, err := buildSummary(month, year, rows)
	if err != nil {
		return a.httpError(c, err)
	}

	// 加入缓存，方便下一次查询
	if genErr == nil {
		if err = a.cache.Set(rctx, month, year, user.ID, generation, summary); err != nil {
			a.l.Error("failed to store summary cache", zap.Int("month", month), zap.Int("year", year), zap.Error(err))
		}
	}

	return c.JSON(http.StatusOK, summary)
}

func buildSummary(month, year int, rows []models.QualityRecord) (*types.SummaryResponse, error) {
	summary := &types.SummaryResponse{
		Month: month,
		Year:  year,
		Count: len(rows),
	}

	for _, m := range []struct {
		field string
		pick  func(models.QualityRecord) float64
		dst   *stats.Summary
	}{
		{"iron", func(r models.QualityRecord) float64 { return r.Iron }, &summary.Iron},
		{"silicon", func(r models.QualityRecord) float64 { return r.Silicon }, &summary.Silicon},
		{"aluminum", func(r models.QualityRecord) float64 { return r.Aluminum }, &summary.Aluminum},
		{"calcium", func(r models.QualityRecord) float64 { return r.Calcium }, &summary.Calcium},
		{"sulfur", func(r models.QualityRecord) float64 { return r.Sulfur }, &summary.Sulfur},
	} {
		values := make([]float64, len(rows))
		for i, r := range rows {
			values[i] = m.pick(r)
		}

		s, err := stats.Summarize(values)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", m.field, err)
		}
		*m.dst = s
	}

	return summary, nil
}
