// Package model contains the database models for machines, items, and slots.
package model
