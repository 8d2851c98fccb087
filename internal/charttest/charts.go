// Package charttest holds small charts shared by tests.
package charttest

// Measure is a measure chart at 120 bpm dropping to 60 bpm at beat 8.
//
//	lane 0 beat 0, lane 1 beat 2, lane 2 hold beat 4-6, lane 7 beat 7,
//	lane 4 beat 8, lane 5 beat 14
const Measure = `#TITLE:Test Song;
#OFFSET:0.5;
#BPMS:0=120,8=60;
#NOTES:
10000000
00000000
01000000
00000000,
00200000
00000000
00300000
00000001,
00001000
,  // measure 3
// nothing here
00000000
00000100
;
`

// Frame is a frame chart whose scroll doubles at frame 180 (3s).
//
//	lane 0 frames 60,120 -> 60,120; lane 2 frame 240 -> 300;
//	lane 3 hold 300-420 -> 420-660
const Frame = `&left_data=120,60&
&down_data=240&
&frzSpace_data=300,420&
&right_data=&
&speed_change=0,1,180,2&
&title=Frame Song&
`

// Reverse scrolls backward after frame 120 (2s).
const Reverse = `&left_data=240,60&speed_change=0,1,120,-1&`

// Single is one tap at beat 1 under 60 bpm, so a beat is a second.
const Single = `#BPMS:0=60;
#NOTES:
00000000
10000000
00000000
00000000
;
`

// Hold is one hold from beat 1 to beat 2 in lane 0 under 60 bpm.
const Hold = `#BPMS:0=60;
#NOTES:
00000000
20000000
30000000
00000000
;
`

// Empty has no notes at all.
const Empty = `#BPMS:0=60;
#NOTES:
00000000
;
`
