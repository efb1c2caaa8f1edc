package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"labgrade_backend/internal/model"
	"strconv"
	"strings"
)

var reportCSVHeader = []string{
	"Subject", "Experiment", "Performance", "Knowledge",
	"Implementation", "Strategy", "Attitude", "Total", "Comment",
}

// WriteReportCSV 每个已评分实验一行，按科目参考顺序输出，最后一行为总评
func WriteReportCSV(w io.Writer, report *model.StudentReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportCSVHeader); err != nil {
		return err
	}

	for _, code := range report.SubjectOrder {
		subject, ok := report.Subjects[code]
		if !ok {
			continue
		}
		for _, e := range subject.Experiments {
			row := []string{
				code,
				strconv.Itoa(e.ExperimentNumber),
				strconv.Itoa(e.Performance),
				strconv.Itoa(e.Knowledge),
				strconv.Itoa(e.Implementation),
				strconv.Itoa(e.Strategy),
				strconv.Itoa(e.Attitude),
				strconv.Itoa(e.TotalMarks),
				e.Comment,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	overall := report.Overall
	summary := []string{
		"Overall", "", "", "", "", "", "",
		fmt.Sprintf("%d/%d", overall.TotalMarks, overall.MaxMarks),
		fmt.Sprintf("%.2f%% (%s)", overall.Percentage, overall.Grade),
	}
	if err := cw.Write(summary); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// ReportFileName 下载文件名，去掉会破坏 Content-Disposition 的字符
func ReportFileName(report *model.StudentReport) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '"', '/', '\\', '\r', '\n':
			return -1
		case ' ':
			return '_'
		}
		return r
	}, report.Student.Name)
	if name == "" {
		name = report.Student.SapID
	}
	return name + "_Report.csv"
}
