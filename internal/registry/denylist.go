/*
 * MIT License
 *
 * (C) Copyright [2025] Hewlett Packard Enterprise Development LP
 *
 * Permission is hereby granted, free of charge, to any person obtaining a
 * copy of this software and associated documentation files (the "Software"),
 * to deal in the Software without restriction, including without limitation
 * the rights to use, copy, modify, merge, publish, distribute, sublicense,
 * and/or sell copies of the Software, and to permit persons to whom the
 * Software is furnished to do so, subject to the following conditions:
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL
 * THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR
 * OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
 * ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
 * OTHER DEALINGS IN THE SOFTWARE.
 *
 */

package registry

// defaultDenyList names devices that must never participate in system
// transitions. Pure platform policy, kept as data. Replace via
// NewWithDenyList for other platforms.
var defaultDenyList = [...]string{
	"cpu0",
	"cpu1",
	"cpu2",
	"cpu3",
	"cpu4",
	"cpu5",
	"cpu6",
	"cpu7",
	"vtcon0",
	"slimbus",
	"pmsg0",
	"soc",
	"soc:timer",
	"soc:hwlock",
	"soc:smp2p-mpss",
	"soc:smp2p-lpass",
	"soc:smp2p-slpi",
	"soc:rpm-glink",
	"c8ce024.syscon",
	"5066008.syscon",
	"5065130.syscon",
	"5066090.syscon",
	"1f40000.syscon",
	"1d00000.syscon",
	"17911000.mailbox",
	"1d0501c.mailbox",
	"10ac000.restart",
	"778000.memory",
	"ac000000.ramoops",
}
