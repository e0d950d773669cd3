package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrDuplicateId   = errors.New("duplicate id")
)

type Student struct {
	Id            string `mapstructure:"id" json:"id"`
	Name          string `mapstructure:"name" json:"name" validate:"required"`
	Gender        string `mapstructure:"gender" json:"gender" validate:"required"`
	Age           int    `mapstructure:"age" json:"age,omitempty" validate:"omitempty,min=1,max=120"`
	DailyClasses  int    `mapstructure:"dailyClasses" json:"dailyClasses" validate:"oneof=1 2"`
	ClassDuration int    `mapstructure:"classDuration" json:"classDuration" validate:"min=30,max=360,halfhour"`
}

type Teacher struct {
	Id     string `mapstructure:"id" json:"id"`
	Name   string `mapstructure:"name" json:"name" validate:"required"`
	Gender string `mapstructure:"gender" json:"gender" validate:"required"`
}

type Input struct {
	Students []Student `mapstructure:"students" json:"students"`
	Teachers []Teacher `mapstructure:"teachers" json:"teachers"`
}

// InputFromJson reads a document holding both "students" and "teachers" arrays
func InputFromJson(file string) (Input, error) {
	var inputJson map[string]any
	if err := readJson(file, &inputJson); err != nil {
		return Input{}, err
	}

	var rawInput Input
	if err := decode(inputJson, &rawInput); err != nil {
		return Input{}, fmt.Errorf("cannot decode input %v: %w", file, err)
	}
	return ProcessRawInput(rawInput)
}

// StudentsFromJson reads a bare array of student records
func StudentsFromJson(file string) ([]Student, error) {
	var inputJson []any
	if err := readJson(file, &inputJson); err != nil {
		return nil, err
	}

	var students []Student
	if err := decode(inputJson, &students); err != nil {
		return nil, fmt.Errorf("cannot decode students %v: %w", file, err)
	}
	input, err := ProcessRawInput(Input{Students: students})
	return input.Students, err
}

// TeachersFromJson reads a bare array of teacher records
func TeachersFromJson(file string) ([]Teacher, error) {
	var inputJson []any
	if err := readJson(file, &inputJson); err != nil {
		return nil, err
	}

	var teachers []Teacher
	if err := decode(inputJson, &teachers); err != nil {
		return nil, fmt.Errorf("cannot decode teachers %v: %w", file, err)
	}
	input, err := ProcessRawInput(Input{Teachers: teachers})
	return input.Teachers, err
}

// ProcessRawInput assigns ids to records lacking one, then validates every record and the uniqueness of ids
func ProcessRawInput(rawInput Input) (Input, error) {
	input := Input{
		Students: lo.Map(rawInput.Students, func(student Student, _ int) Student {
			if student.Id == "" {
				student.Id = uuid.NewString()
			}
			return student
		}),
		Teachers: lo.Map(rawInput.Teachers, func(teacher Teacher, _ int) Teacher {
			if teacher.Id == "" {
				teacher.Id = uuid.NewString()
			}
			return teacher
		}),
	}

	//** Validate records
	for _, student := range input.Students {
		if err := validate.Struct(student); err != nil {
			return Input{}, fmt.Errorf("%w: student %q: %v", ErrInvalidRecord, student.Name, err)
		}
	}
	for _, teacher := range input.Teachers {
		if err := validate.Struct(teacher); err != nil {
			return Input{}, fmt.Errorf("%w: teacher %q: %v", ErrInvalidRecord, teacher.Name, err)
		}
	}

	//** Validate uniqueness
	if duplicates := lo.FindDuplicates(lo.Map(input.Students, func(student Student, _ int) string { return student.Id })); len(duplicates) > 0 {
		return Input{}, fmt.Errorf("%w: students %v", ErrDuplicateId, duplicates)
	}
	if duplicates := lo.FindDuplicates(lo.Map(input.Teachers, func(teacher Teacher, _ int) string { return teacher.Id })); len(duplicates) > 0 {
		return Input{}, fmt.Errorf("%w: teachers %v", ErrDuplicateId, duplicates)
	}

	return input, nil
}

func readJson(file string, target any) error {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	}
	if err := json.Unmarshal(bytes, target); err != nil {
		return fmt.Errorf("cannot parse input file %v: %w", file, err)
	}
	return nil
}

// Numeric ids (e.g. exported from the web client) are accepted and stored as strings
func decode(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           output,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}
