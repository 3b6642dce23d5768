package main

import (
	"log"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/parquet-go/parquet-go"
	"github.com/segmentio/encoding/json"
)

type Section struct {
	Audit      int32   `parquet:"audit" json:"audit"`
	Avg        float64 `parquet:"avg" json:"avg"`
	Dept       string  `parquet:"dept" json:"dept"`
	Fail       int32   `parquet:"fail" json:"fail"`
	ID         string  `parquet:"id" json:"id"`
	Instructor string  `parquet:"instructor" json:"instructor"`
	Pass       int32   `parquet:"pass" json:"pass"`
	Title      string  `parquet:"title" json:"title"`
	UUID       string  `parquet:"uuid" json:"uuid"`
	Year       int32   `parquet:"year" json:"year"`
}

type Room struct {
	Address   string  `json:"address"`
	FullName  string  `json:"fullname"`
	Furniture string  `json:"furniture"`
	Lat       float64 `json:"lat"`
	Href      string  `json:"href"`
	Lon       float64 `json:"lon"`
	Name      string  `json:"name"`
	Number    string  `json:"number"`
	Seats     int     `json:"seats"`
	ShortName string  `json:"shortname"`
	Type      string  `json:"type"`
}

func main() {
	sections := []Section{
		{Audit: 0, Avg: 97.5, Dept: "cpsc", Fail: 0, ID: "589", Instructor: "knorr, edwin", Pass: 12, Title: "thesis", UUID: "1001", Year: 2015},
		{Audit: 1, Avg: 95.2, Dept: "math", Fail: 1, ID: "527", Instructor: "bryan, jim", Pass: 20, Title: "algb geometry i", UUID: "1002", Year: 2016},
		{Audit: 2, Avg: 72.1, Dept: "cpsc", Fail: 8, ID: "110", Instructor: "kiczales, gregor", Pass: 180, Title: "comptn, progrmng", UUID: "1003", Year: 2014},
		{Audit: 0, Avg: 98.7, Dept: "epse", Fail: 0, ID: "421", Instructor: "cole, kenneth", Pass: 15, Title: "assess lrn diffi", UUID: "1004", Year: 2012},
		{Audit: 3, Avg: 81.4, Dept: "math", Fail: 4, ID: "100", Instructor: "", Pass: 201, Title: "diff calculus", UUID: "1005", Year: 1900},
	}

	file, err := os.Create("courses.parquet")
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Section](file)
	if _, err := writer.Write(sections); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}

	rooms := []Room{
		{Address: "6245 Agronomy Road V6T 1Z4", FullName: "Hugh Dempster Pavilion", Furniture: "Classroom-Movable Tables & Chairs", Lat: 49.26125, Href: "http://students.ubc.ca/campus/discover/buildings-and-classrooms/room/DMP-110", Lon: -123.24807, Name: "DMP_110", Number: "110", Seats: 120, ShortName: "DMP", Type: "Tiered Large Group"},
		{Address: "6245 Agronomy Road V6T 1Z4", FullName: "Hugh Dempster Pavilion", Furniture: "Classroom-Movable Tables & Chairs", Lat: 49.26125, Href: "http://students.ubc.ca/campus/discover/buildings-and-classrooms/room/DMP-201", Lon: -123.24807, Name: "DMP_201", Number: "201", Seats: 40, ShortName: "DMP", Type: "Small Group"},
		{Address: "2194 Health Sciences Mall", FullName: "Woodward (Instructional Resources Centre-IRC)", Furniture: "Classroom-Fixed Tables/Movable Chairs", Lat: 49.26416, Href: "http://students.ubc.ca/campus/discover/buildings-and-classrooms/room/WOOD-2", Lon: -123.24959, Name: "WOOD_2", Number: "2", Seats: 503, ShortName: "WOOD", Type: "Tiered Large Group"},
	}

	data, err := json.Marshal(rooms)
	if err != nil {
		log.Fatal(err)
	}

	out, err := os.Create("rooms.json.gz")
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	if _, err := gz.Write(data); err != nil {
		log.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated courses.parquet with %d sections and rooms.json.gz with %d rooms", len(sections), len(rooms))
}
