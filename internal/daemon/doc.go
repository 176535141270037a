// Package daemon runs the admission scheduler: a single cooperative loop
// that drains the shared queue file, admits jobs against currently free
// capacity, launches them in detached sessions, and reclaims resources when
// their completion sentinels appear.
//
// Admission is greedy and myopic: jobs are taken strictly in (priority
// descending, submission time ascending) order with no bin-packing and no
// aging. A low-priority job with a large demand can therefore wait forever
// behind a steady stream of high-priority small jobs. That behavior is
// intentional and should not be "fixed" here.
package daemon
